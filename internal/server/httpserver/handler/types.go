package handler

import (
	"time"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

// Response is the standard API response envelope.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// CreateSessionRequest is the request body for POST /sessions.
type CreateSessionRequest struct {
	UserID     string `json:"user_id"`
	Domain     string `json:"domain"`
	ClientIP   string `json:"client_ip,omitempty"`
	TTLSeconds int64  `json:"ttl_seconds,omitempty"`
}

// CreateClaimRequest is the request body for POST /claims.
type CreateClaimRequest struct {
	ClientID string   `json:"client_id"`
	UserID   string   `json:"user_id"`
	User     string   `json:"user,omitempty"`
	Domain   string   `json:"domain,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// SessionListResponse is the response body for GET /users/{user_id}/sessions.
type SessionListResponse struct {
	UserID   string            `json:"user_id"`
	Sessions []*domain.Session `json:"sessions"`
}

// RevokeUserResponse is the response body for POST /users/{user_id}/sessions/revoke.
type RevokeUserResponse struct {
	UserID  string `json:"user_id"`
	Revoked int    `json:"revoked"`
}

// PeerView describes one peer connection in StatusResponse.
type PeerView struct {
	ID          string    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	LocalAddr   string    `json:"local_addr" table:"wide"`
	Inbound     bool      `json:"inbound"`
	ConnectedAt time.Time `json:"connected_at"`
}

// StatusResponse is the response body for GET /admin/v1/status.
type StatusResponse struct {
	Node          string     `json:"node"`
	State         string     `json:"state"`
	Version       string     `json:"version"`
	MirrorObjects int        `json:"mirror_objects"`
	Peers         []PeerView `json:"peers"`
}

func peerViews(peers []cluster.PeerInfo) []PeerView {
	out := make([]PeerView, 0, len(peers))
	for _, p := range peers {
		out = append(out, PeerView{
			ID:          p.ID,
			RemoteAddr:  p.RemoteAddr,
			LocalAddr:   p.LocalAddr,
			Inbound:     p.Inbound,
			ConnectedAt: p.ConnectedAt,
		})
	}
	return out
}
