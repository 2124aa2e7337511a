package service

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
	"github.com/yndnr/aaamesh-go/pkg/cmap"
)

// Mirror holds the replicated view of sessions and claims.
//
// It implements cluster.Listener. OpWrite replaces the stored object,
// OpUpdate merges the non-nil fields into it (creating it if absent) and
// OpDelete removes it. Stored objects are private copies; getters return
// clones.
type Mirror struct {
	sessions *cmap.Map[string, *domain.Session]
	claims   *cmap.Map[string, *domain.Claim]
	logger   *slog.Logger
}

// NewMirror creates an empty mirror.
func NewMirror(logger *slog.Logger) *Mirror {
	return NewMirrorWithShards(logger, cmap.DefaultShardCount)
}

// NewMirrorWithShards creates an empty mirror whose maps use the given
// number of shards.
func NewMirrorWithShards(logger *slog.Logger, shards int) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mirror{
		sessions: cmap.NewWithShards[string, *domain.Session](shards),
		claims:   cmap.NewWithShards[string, *domain.Claim](shards),
		logger:   logger.With("component", "mirror"),
	}
}

// ReceivedObject implements cluster.Listener.
func (m *Mirror) ReceivedObject(obj any, op cluster.OpCode) {
	if err := m.Apply(obj, op); err != nil {
		m.logger.Warn("ignoring replicated object", "op", op.String(), "code", domain.GetErrorCode(err), "error", err)
		return
	}
	m.logger.Debug("applied replicated object", "op", op.String(), "type", fmt.Sprintf("%T", obj))
}

// Apply applies one replicated change.
func (m *Mirror) Apply(obj any, op cluster.OpCode) error {
	switch v := obj.(type) {
	case *domain.Session:
		if v == nil || v.ID == "" {
			return domain.ErrSessionValidation.WithDetails("missing id")
		}
		applyTo(m.sessions, v.ID, v, op, (*domain.Session).Clone, (*domain.Session).Merge)
	case *domain.Claim:
		if v == nil || v.ID == "" {
			return domain.ErrClaimValidation.WithDetails("missing id")
		}
		applyTo(m.claims, v.ID, v, op, (*domain.Claim).Clone, (*domain.Claim).Merge)
	default:
		return domain.ErrUnexpectedObject.WithDetails(fmt.Sprintf("%T", obj))
	}
	return nil
}

func applyTo[T any](
	store *cmap.Map[string, *T],
	id string,
	obj *T,
	op cluster.OpCode,
	clone func(*T) *T,
	merge func(*T, *T),
) {
	switch op {
	case cluster.OpWrite:
		store.Set(id, clone(obj))
	case cluster.OpUpdate:
		store.Compute(id, func(old *T, exists bool) (*T, bool) {
			if !exists {
				return clone(obj), true
			}
			next := clone(old)
			merge(next, obj)
			return next, true
		})
	case cluster.OpDelete:
		store.Delete(id)
	}
}

// Session returns a copy of the session with the given ID.
func (m *Mirror) Session(id string) (*domain.Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound.WithDetails(id)
	}
	return s.Clone(), nil
}

// Claim returns a copy of the claim with the given ID.
func (m *Mirror) Claim(id string) (*domain.Claim, error) {
	c, ok := m.claims.Get(id)
	if !ok {
		return nil, domain.ErrClaimNotFound.WithDetails(id)
	}
	return c.Clone(), nil
}

// SessionsOf returns copies of the sessions owned by userID, ordered by ID.
func (m *Mirror) SessionsOf(userID string) []*domain.Session {
	var out []*domain.Session
	m.sessions.Range(func(_ string, s *domain.Session) bool {
		if s.UserID != nil && *s.UserID == userID {
			out = append(out, s.Clone())
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of mirrored sessions and claims.
func (m *Mirror) Len() int {
	return m.sessions.Count() + m.claims.Count()
}

// Sweep drops sessions that expired before now and returns how many were
// removed. Every node sweeps on its own, so nothing is broadcast.
func (m *Mirror) Sweep(now time.Time) int {
	var expired []string
	m.sessions.Range(func(id string, s *domain.Session) bool {
		if s.IsExpired(now) {
			expired = append(expired, id)
		}
		return true
	})

	removed := 0
	for _, id := range expired {
		// Re-check under the shard lock: a concurrent update may have
		// extended the session.
		m.sessions.Compute(id, func(s *domain.Session, exists bool) (*domain.Session, bool) {
			if exists && s.IsExpired(now) {
				removed++
				return nil, false
			}
			return s, exists
		})
	}
	return removed
}
