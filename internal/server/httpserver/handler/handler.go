package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

// NodeStatus is the part of *cluster.Node the handlers read.
type NodeStatus interface {
	Identity() cluster.Identity
	State() cluster.State
	Peers() []cluster.PeerInfo
	Ready() <-chan struct{}
}

// Store reads the replicated view. *service.Mirror implements it.
type Store interface {
	Session(id string) (*domain.Session, error)
	Claim(id string) (*domain.Claim, error)
	SessionsOf(userID string) []*domain.Session
	Len() int
}

// Publisher applies and replicates changes. *service.Publisher implements it.
type Publisher interface {
	PublishSession(s *domain.Session) error
	EndSession(id string) error
	RevokeSession(id string) error
	RevokeUser(userID string) (int, error)
	PublishClaim(c *domain.Claim) error
	RevokeClaim(id string) error
}

// Handler serves the admin API routes.
type Handler struct {
	node      NodeStatus
	store     Store
	publisher Publisher
	logger    *slog.Logger
	mux       *http.ServeMux
}

// New creates a Handler.
func New(node NodeStatus, store Store, publisher Publisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		node:      node,
		store:     store,
		publisher: publisher,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("GET /admin/v1/status", h.handleStatus)

	h.mux.HandleFunc("POST /sessions", h.handleCreateSession)
	h.mux.HandleFunc("GET /sessions/{id}", h.handleGetSession)
	h.mux.HandleFunc("GET /sessions/{id}/validate", h.handleValidateSession)
	h.mux.HandleFunc("POST /sessions/{id}/end", h.handleEndSession)
	h.mux.HandleFunc("POST /sessions/{id}/revoke", h.handleRevokeSession)
	h.mux.HandleFunc("GET /users/{user_id}/sessions", h.handleListUserSessions)
	h.mux.HandleFunc("POST /users/{user_id}/sessions/revoke", h.handleRevokeUserSessions)

	h.mux.HandleFunc("POST /claims", h.handleCreateClaim)
	h.mux.HandleFunc("GET /claims/{id}", h.handleGetClaim)
	h.mux.HandleFunc("POST /claims/{id}/revoke", h.handleRevokeClaim)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details))
}

// decodeJSON reads a bounded JSON body that must not carry unknown fields.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "invalid request body", err.Error())
		return false
	}
	return true
}

func getRequestID(r *http.Request) string {
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		h.writeError(w, r, errorCodeToHTTPStatus(de.Code), de.Code, de.Error(), nil)
		return
	}
	h.logger.Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, "internal server error", nil)
}

// errorCodeToHTTPStatus maps AAA-* error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4041"), strings.HasSuffix(code, "-4042"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
