package handler

import (
	"net/http"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
)

func (h *Handler) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	var req CreateClaimRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	c, err := domain.NewClaim(req.ClientID, req.UserID, req.Roles...)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if req.User != "" {
		c.User = &req.User
	}
	if req.Domain != "" {
		c.Domain = &req.Domain
	}

	if err := h.publisher.PublishClaim(c); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, c)
}

func (h *Handler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Claim(r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, c)
}

func (h *Handler) handleRevokeClaim(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.publisher.RevokeClaim(id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"id": id, "status": "revoked"})
}
