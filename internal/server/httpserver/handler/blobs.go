package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// handlePutBlob handles PUT /v1/blobs.
func (h *Handler) handlePutBlob(w http.ResponseWriter, r *http.Request) {
	limit := int64(h.blobs.MaxSize())
	content, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if int64(len(content)) > limit {
		h.writeError(w, r, http.StatusRequestEntityTooLarge, domain.ErrInvalidArgument.Code,
			"blob too large", "limit "+strconv.FormatInt(limit, 10)+" bytes")
		return
	}

	hash, err := h.blobs.Put(r.Context(), content)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, PutBlobResponse{Hash: hash.String(), Size: len(content)})
}

// handleGetBlob handles GET /v1/blobs/{hash}. The body is the raw content.
func (h *Handler) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("hash")
	content, err := h.blobs.Get(r.Context(), hash)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("ETag", `"`+hash+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// handleHeadBlob handles HEAD /v1/blobs/{hash}.
func (h *Handler) handleHeadBlob(w http.ResponseWriter, r *http.Request) {
	ok, err := h.blobs.Has(r.Context(), r.PathValue("hash"))
	switch {
	case errors.Is(err, domain.ErrInvalidHash):
		w.WriteHeader(http.StatusBadRequest)
	case err != nil:
		h.logger.WithContext(r.Context()).Error("blob lookup failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
	case !ok:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusOK)
	}
}
