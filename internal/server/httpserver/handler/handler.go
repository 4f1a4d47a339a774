package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/core/service"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// Handler serves the sigtok API.
type Handler struct {
	tokens *service.TokenService
	blobs  *service.BlobService
	logger logger.Logger
	mux    *http.ServeMux
}

// New creates a new Handler with the given services.
func New(tokens *service.TokenService, blobs *service.BlobService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{
		tokens: tokens,
		blobs:  blobs,
		logger: log.With("component", "http_handler"),
		mux:    http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Route patterns.
const (
	RouteHealth      = "GET /health"
	RouteReady       = "GET /ready"
	RouteCreateToken = "POST /v1/tokens"
	RouteReadToken   = "GET /v1/tokens/{token}"
	RoutePutBlob     = "PUT /v1/blobs"
	RouteGetBlob     = "GET /v1/blobs/{hash}"
	RouteHeadBlob    = "HEAD /v1/blobs/{hash}"
)

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc(RouteHealth, h.handleHealth)
	h.mux.HandleFunc(RouteReady, h.handleReady)

	h.mux.HandleFunc(RouteCreateToken, h.handleCreateToken)
	h.mux.HandleFunc(RouteReadToken, h.handleReadToken)

	h.mux.HandleFunc(RoutePutBlob, h.handlePutBlob)
	h.mux.HandleFunc(RouteGetBlob, h.handleGetBlob)
	h.mux.HandleFunc(RouteHeadBlob, h.handleHeadBlob)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.writeResponse(w, r, status, NewResponse(requestID(r), data))
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	w.Header().Set("X-Error-Code", code)
	h.writeResponse(w, r, status, NewErrorResponse(requestID(r), code, message, details))
}

func (h *Handler) writeResponse(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	if resp.RequestID != "" {
		w.Header().Set("X-Request-ID", resp.RequestID)
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.WithContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// requestID returns the ID assigned by the RequestID middleware, falling
// back to the incoming header.
func requestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.writeError(w, r, http.StatusRequestEntityTooLarge, domain.ErrInvalidArgument.Code,
			"request body too large", nil)
		return
	}

	var de *domain.DomainError
	if errors.As(err, &de) {
		status := errorCodeToHTTPStatus(de.Code)
		if status >= 500 {
			h.logger.WithContext(r.Context()).Error("request failed", "error", err, "code", de.Code)
			h.writeError(w, r, status, de.Code, de.Message, nil)
			return
		}
		var details any
		if de.Details != "" {
			details = de.Details
		}
		h.writeError(w, r, status, de.Code, de.Message, details)
		return
	}

	h.logger.WithContext(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message, nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes by their
// numeric suffix.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4220"):
		return http.StatusBadGateway
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"):
		return http.StatusUnauthorized
	case strings.Contains(code, "-400"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
