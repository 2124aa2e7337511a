package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
)

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.TTLSeconds < 0 {
		h.handleServiceError(w, r, domain.ErrSessionValidation.WithDetails("ttl_seconds must not be negative"))
		return
	}

	s, err := domain.NewSession(req.UserID, req.Domain, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if req.ClientIP != "" {
		s.ClientIP = &req.ClientIP
	}

	if err := h.publisher.PublishSession(s); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, s)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Session(r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, s)
}

// handleValidateSession answers whether a session may be used now:
// 200 with the session, 404 if unknown, 403 if expired or ended.
func (h *Handler) handleValidateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Session(r.PathValue("id"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if err := s.Check(time.Now()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, s)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.Session(id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if err := h.publisher.EndSession(id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"id": id, "status": "ended"})
}

func (h *Handler) handleRevokeSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.publisher.RevokeSession(id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"id": id, "status": "revoked"})
}

func (h *Handler) handleListUserSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	sessions := h.store.SessionsOf(userID)
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	h.writeJSON(w, r, http.StatusOK, &SessionListResponse{UserID: userID, Sessions: sessions})
}

func (h *Handler) handleRevokeUserSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	n, err := h.publisher.RevokeUser(userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, &RevokeUserResponse{UserID: userID, Revoked: n})
}
