package httpserver

import (
	"net/http"

	"github.com/yndnr/sigtok-go/internal/core/service"
	"github.com/yndnr/sigtok-go/internal/server/httpserver/handler"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// TokenService issues and reads tokens.
	TokenService *service.TokenService

	// BlobService exposes the content store to remote clients.
	BlobService *service.BlobService

	// Logger for request logging.
	Logger logger.Logger

	// Metrics records per-request counters. Optional.
	Metrics RequestRecorder

	// MetricsHandler serves GET /metrics. Optional.
	MetricsHandler http.Handler

	// AuthToken guards write routes when non-empty.
	AuthToken string

	// RateLimit is the sustained per-IP request rate; zero disables limiting.
	RateLimit float64

	// RateBurst is the per-IP burst size.
	RateBurst int

	// MaxBodyBytes bounds request bodies on write routes.
	MaxBodyBytes int64
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	h := handler.New(cfg.TokenService, cfg.BlobService, log)

	// Order: Recover -> RequestID -> RateLimit -> AccessLog -> Handler
	base := []Middleware{
		Recover(log),
		RequestID(),
		RateLimit(cfg.RateLimit, cfg.RateBurst),
		AccessLog(log, cfg.Metrics),
	}
	write := append(append([]Middleware{}, base...),
		BearerAuth(cfg.AuthToken),
		MaxBytes(cfg.MaxBodyBytes),
	)

	mux := http.NewServeMux()

	// Probes skip rate limiting so orchestrators never see 429.
	probe := Chain(h, Recover(log), RequestID())
	mux.Handle(handler.RouteHealth, probe)
	mux.Handle(handler.RouteReady, probe)

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", Chain(cfg.MetricsHandler, Recover(log)))
	}

	read := Chain(h, base...)
	mux.Handle(handler.RouteReadToken, read)
	mux.Handle(handler.RouteGetBlob, read)
	mux.Handle(handler.RouteHeadBlob, read)

	writes := Chain(h, write...)
	mux.Handle(handler.RouteCreateToken, writes)
	mux.Handle(handler.RoutePutBlob, writes)

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimit:    50,
		RateBurst:    100,
		MaxBodyBytes: cas.MaxBlobSize,
	}
}
