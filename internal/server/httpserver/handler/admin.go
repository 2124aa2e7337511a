package handler

import (
	"net/http"

	"github.com/yndnr/aaamesh-go/internal/infra/buildinfo"
)

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, &StatusResponse{
		Node:          h.node.Identity().String(),
		State:         h.node.State().String(),
		Version:       buildinfo.Version,
		MirrorObjects: h.store.Len(),
		Peers:         peerViews(h.node.Peers()),
	})
}
