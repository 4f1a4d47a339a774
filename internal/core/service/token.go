package service

import (
	"context"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/core/token"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// Read outcomes reported to the Recorder.
const (
	ReadValid           = "valid"
	ReadNotFound        = "not_found"
	ReadMalformed       = "malformed"
	ReadNoSignatures    = "no_signatures"
	ReadMissingSigBlob  = "missing_signature"
	ReadBadSignature    = "bad_signature"
	ReadInvalidArgument = "invalid_argument"
	ReadStorageError    = "storage_error"
	ReadPayloadError    = "payload_error"
)

// Recorder receives token metrics. *metric.Registry satisfies it.
type Recorder interface {
	IncTokenCreated()
	RecordTokenRead(result string)
	RecordVerification(result string)
}

type nopRecorder struct{}

func (nopRecorder) IncTokenCreated()          {}
func (nopRecorder) RecordTokenRead(string)    {}
func (nopRecorder) RecordVerification(string) {}

// TokenService issues and reads tokens signed by one key.
type TokenService struct {
	backend *token.Backend
	key     *signing.PrivateKey
	metrics Recorder
	logger  logger.Logger
}

// NewTokenService creates a TokenService. metrics may be nil.
func NewTokenService(backend *token.Backend, key *signing.PrivateKey, metrics Recorder) *TokenService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	log := backend.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &TokenService{
		backend: backend,
		key:     key,
		metrics: metrics,
		logger:  log.With("component", "token_service"),
	}
}

// PublicKey returns the verification key for issued tokens.
func (s *TokenService) PublicKey() *signing.PublicKey {
	return s.key.Public()
}

// Create signs data and returns the token string.
func (s *TokenService) Create(ctx context.Context, data any) (domain.Hash, error) {
	hash, err := token.CreateToken(ctx, s.backend, data, s.key)
	if err != nil {
		s.logger.WithContext(ctx).Error("token create failed",
			"error", err,
			"code", domain.GetErrorCode(err))
		return "", err
	}

	s.metrics.IncTokenCreated()
	s.logger.WithContext(ctx).Debug("token created", "token", hash)
	return hash, nil
}

// Read returns the payload of tok and true, or (nil, false) for any
// token that cannot be trusted. The reason is logged and counted but never
// returned.
func (s *TokenService) Read(ctx context.Context, tok string) (any, bool) {
	data, err := token.Read[any](ctx, s.backend, tok, s.key.Public())
	result := readResult(err)

	s.metrics.RecordTokenRead(result)
	if result != ReadNotFound && result != ReadMalformed && result != ReadInvalidArgument {
		s.metrics.RecordVerification(result)
	}

	if err != nil {
		s.logger.WithContext(ctx).Info("token read rejected",
			"token", tok,
			"result", result,
			"error", err)
		return nil, false
	}
	return data, true
}

// readResult maps a read error onto a metric label.
func readResult(err error) string {
	if err == nil {
		return ReadValid
	}
	switch domain.GetErrorCode(err) {
	case domain.ErrBlobNotFound.Code:
		return ReadNotFound
	case domain.ErrMalformedEnvelope.Code:
		return ReadMalformed
	case domain.ErrNoSignatures.Code:
		return ReadNoSignatures
	case domain.ErrSignatureNotFound.Code:
		return ReadMissingSigBlob
	case domain.ErrVerificationFailed.Code, domain.ErrContentMismatch.Code:
		return ReadBadSignature
	case domain.ErrInvalidHash.Code, domain.ErrInvalidArgument.Code:
		return ReadInvalidArgument
	case domain.ErrPayloadEncoding.Code:
		return ReadPayloadError
	default:
		return ReadStorageError
	}
}
