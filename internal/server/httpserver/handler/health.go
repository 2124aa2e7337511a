package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady reports ready once the node accepts peers.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.node.Ready():
	default:
		h.writeError(w, r, http.StatusServiceUnavailable, "AAA-SYS-5031", "node not ready", nil)
		return
	}
	if st := h.node.State(); st != cluster.StateListening {
		h.writeError(w, r, http.StatusServiceUnavailable, "AAA-SYS-5031", "node "+st.String(), nil)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
