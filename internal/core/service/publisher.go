package service

import (
	"log/slog"
	"time"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

// Replicator broadcasts objects to peers. *cluster.Node implements it.
type Replicator interface {
	WriteObject(obj any) error
	UpdateObject(obj any) error
	DeleteObject(obj any) error
}

// Publisher applies local AAA changes and replicates them.
//
// Each change is applied to the local mirror first, so it is visible here
// even if some peers cannot be reached. A replication failure is reported
// as ErrReplicationFailed wrapping the transport error.
type Publisher struct {
	node   Replicator
	mirror *Mirror
	logger *slog.Logger
}

// NewPublisher creates a publisher.
func NewPublisher(node Replicator, mirror *Mirror, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		node:   node,
		mirror: mirror,
		logger: logger.With("component", "publisher"),
	}
}

// PublishSession stores s and sends it to peers as a full replacement.
func (p *Publisher) PublishSession(s *domain.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return p.publish(cluster.OpWrite, s, s.ID)
}

// PatchSession merges the non-nil fields of patch into the session with
// the same ID, locally and on every peer.
func (p *Publisher) PatchSession(patch *domain.Session) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return p.publish(cluster.OpUpdate, patch, patch.ID)
}

// EndSession marks a session inactive without removing it.
func (p *Publisher) EndSession(id string) error {
	inactive := false
	return p.PatchSession(&domain.Session{ID: id, Active: &inactive})
}

// RevokeSession removes a session everywhere. Revoking an unknown
// session is not an error.
func (p *Publisher) RevokeSession(id string) error {
	if !domain.IsValidSessionID(id) {
		return domain.ErrInvalidArgument.WithDetails("session id " + id)
	}
	return p.publish(cluster.OpDelete, &domain.Session{ID: id}, id)
}

// RevokeUser revokes every session owned by userID and returns how many
// were revoked. It stops at the first replication failure.
func (p *Publisher) RevokeUser(userID string) (int, error) {
	if userID == "" {
		return 0, domain.ErrInvalidArgument.WithDetails("user_id is required")
	}
	sessions := p.mirror.SessionsOf(userID)
	for i, s := range sessions {
		if err := p.RevokeSession(s.ID); err != nil {
			return i, err
		}
	}
	return len(sessions), nil
}

// PublishClaim stores c and sends it to peers as a full replacement.
func (p *Publisher) PublishClaim(c *domain.Claim) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return p.publish(cluster.OpWrite, c, c.ID)
}

// RevokeClaim removes a claim everywhere.
func (p *Publisher) RevokeClaim(id string) error {
	if !domain.IsValidClaimID(id) {
		return domain.ErrInvalidArgument.WithDetails("claim id " + id)
	}
	return p.publish(cluster.OpDelete, &domain.Claim{ID: id}, id)
}

// Sweep removes locally expired sessions. See Mirror.Sweep.
func (p *Publisher) Sweep(now time.Time) int {
	n := p.mirror.Sweep(now)
	if n > 0 {
		p.logger.Info("expired sessions swept", "count", n)
	}
	return n
}

func (p *Publisher) publish(op cluster.OpCode, obj any, id string) error {
	if err := p.mirror.Apply(obj, op); err != nil {
		return err
	}

	var err error
	switch op {
	case cluster.OpWrite:
		err = p.node.WriteObject(obj)
	case cluster.OpUpdate:
		err = p.node.UpdateObject(obj)
	case cluster.OpDelete:
		err = p.node.DeleteObject(obj)
	}
	if err != nil {
		p.logger.Warn("replication failed", "op", op.String(), "id", id, "error", err)
		return domain.ErrReplicationFailed.WithDetails(op.String() + " " + id).WithCause(err)
	}
	return nil
}
