package token

import (
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// Backend bundles the collaborators every token operation needs.
type Backend struct {
	Store  cas.Store
	Signer *signing.Service
	Logger logger.Logger
}

// NewBackend builds a Backend. A nil signer or logger is replaced with a
// default.
func NewBackend(store cas.Store, signer *signing.Service, log logger.Logger) *Backend {
	if signer == nil {
		signer = signing.NewService()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Backend{Store: store, Signer: signer, Logger: log}
}

func (b *Backend) logger() logger.Logger {
	if b.Logger == nil {
		return logger.Nop()
	}
	return b.Logger
}

func (b *Backend) signer() *signing.Service {
	if b.Signer == nil {
		return signing.NewService()
	}
	return b.Signer
}
