package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

func startMirrorNode(t *testing.T) (*cluster.Node, *Mirror) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := cluster.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Logger = logger

	m := NewMirror(logger)
	n, err := cluster.Listen(cfg, newRegistry(t), m)
	require.NoError(t, err)
	t.Cleanup(func() { _ = n.Shutdown(context.Background()) })
	return n, m
}

func TestReplication_BetweenNodes(t *testing.T) {
	a, mirrorA := startMirrorNode(t)
	b, mirrorB := startMirrorNode(t)

	_, err := a.ConnectTo(context.Background(), "127.0.0.1", b.Identity().Port)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(b.Peers()) == 1 }, 5*time.Second, 5*time.Millisecond)

	pubA := NewPublisher(a, mirrorA, nil)
	pubB := NewPublisher(b, mirrorB, nil)

	s, err := domain.NewSession("alice", "corp", time.Hour)
	require.NoError(t, err)
	s.ClientIP = ptr("192.0.2.10")
	require.NoError(t, pubA.PublishSession(s))

	require.Eventually(t, func() bool {
		_, err := mirrorB.Session(s.ID)
		return err == nil
	}, 5*time.Second, 5*time.Millisecond)

	got, _ := mirrorB.Session(s.ID)
	assert.Equal(t, s, got)

	// A patch from the other side merges into A's copy.
	require.NoError(t, pubB.EndSession(s.ID))
	require.Eventually(t, func() bool {
		cur, err := mirrorA.Session(s.ID)
		return err == nil && cur.Active != nil && !*cur.Active
	}, 5*time.Second, 5*time.Millisecond)

	cur, _ := mirrorA.Session(s.ID)
	assert.Equal(t, "192.0.2.10", *cur.ClientIP)

	require.NoError(t, pubA.RevokeSession(s.ID))
	require.Eventually(t, func() bool { return mirrorB.Len() == 0 }, 5*time.Second, 5*time.Millisecond)
}
