package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/aaamesh-go/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Node      handler.NodeStatus
	Store     handler.Store
	Publisher handler.Publisher

	// Metrics serves /metrics. nil leaves the route unregistered.
	Metrics http.Handler

	// BearerToken protects every route but /health and /ready.
	BearerToken string
	// MetricsPublic exempts /metrics from BearerToken.
	MetricsPublic bool
	// RateLimit is requests per second per client IP. 0 disables it.
	RateLimit float64

	Logger *slog.Logger
}

// NewRouter builds the admin router with its middleware chains.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	h := handler.New(cfg.Node, cfg.Store, cfg.Publisher, logger)

	base := []Middleware{RequestID(), Recover(logger)}
	if cfg.RateLimit > 0 {
		base = append(base, RateLimit(cfg.RateLimit))
	}
	base = append(base, Audit(logger))
	authed := append(append([]Middleware(nil), base...), BearerAuth(cfg.BearerToken))

	mux := http.NewServeMux()

	open := Chain(h, base...)
	mux.Handle("GET /health", open)
	mux.Handle("GET /ready", open)

	if cfg.Metrics != nil {
		if cfg.MetricsPublic {
			mux.Handle("GET /metrics", Chain(cfg.Metrics, base...))
		} else {
			mux.Handle("GET /metrics", Chain(cfg.Metrics, authed...))
		}
	}

	api := Chain(h, authed...)
	mux.Handle("GET /admin/v1/status", api)

	mux.Handle("POST /sessions", api)
	mux.Handle("GET /sessions/{id}", api)
	mux.Handle("GET /sessions/{id}/validate", api)
	mux.Handle("POST /sessions/{id}/end", api)
	mux.Handle("POST /sessions/{id}/revoke", api)
	mux.Handle("GET /users/{user_id}/sessions", api)
	mux.Handle("POST /users/{user_id}/sessions/revoke", api)

	mux.Handle("POST /claims", api)
	mux.Handle("GET /claims/{id}", api)
	mux.Handle("POST /claims/{id}/revoke", api)

	return mux
}
