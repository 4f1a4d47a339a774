package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// handleCreateToken handles POST /v1/tokens. The body is any JSON value,
// which becomes the token payload.
func (h *Handler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"request body must be a JSON value", nil)
		return
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"invalid JSON body", err.Error())
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"request body must contain a single JSON value", nil)
		return
	}

	tok, err := h.tokens.Create(r.Context(), data)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/tokens/"+tok.String())
	h.writeJSON(w, r, http.StatusCreated, CreateTokenResponse{Token: tok.String()})
}

// handleReadToken handles GET /v1/tokens/{token}. Every reason a token
// cannot be trusted yields the same 404 response.
func (h *Handler) handleReadToken(w http.ResponseWriter, r *http.Request) {
	data, ok := h.tokens.Read(r.Context(), r.PathValue("token"))
	if !ok {
		resp := NewErrorResponse(requestID(r), domain.ErrTokenInvalid.Code, domain.ErrTokenInvalid.Message, nil)
		resp.Data = ReadTokenResponse{Valid: false}
		w.Header().Set("X-Error-Code", domain.ErrTokenInvalid.Code)
		h.writeResponse(w, r, http.StatusNotFound, resp)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ReadTokenResponse{Valid: true, Data: data})
}
