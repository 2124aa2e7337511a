package benchmark

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/internal/core/service"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
	"github.com/yndnr/aaamesh-go/pkg/codec"
)

// SessionCounts defines the mirror sizes for full benchmark runs.
var SessionCounts = []int{5000, 10000, 50000, 100000, 500000}

// SmallSessionCounts for quick benchmarks.
var SmallSessionCounts = []int{1000, 5000, 10000}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// createSession creates a fully populated session.
func createSession(b *testing.B, userID string) *domain.Session {
	b.Helper()
	s, err := domain.NewSession(userID, "corp.example", time.Hour)
	if err != nil {
		b.Fatalf("NewSession: %v", err)
	}
	ip := "192.168.1.1"
	s.ClientIP = &ip
	return s
}

// createClaim creates a claim with a handful of roles.
func createClaim(b *testing.B, userID string) *domain.Claim {
	b.Helper()
	c, err := domain.NewClaim("portal", userID, "admin", "audit", "billing", "support")
	if err != nil {
		b.Fatalf("NewClaim: %v", err)
	}
	name := "User " + userID
	c.User = &name
	return c
}

func newRegistry(b *testing.B, opts ...codec.Option) *codec.Registry {
	b.Helper()
	reg := codec.NewRegistry(opts...)
	if err := service.RegisterCodecs(reg); err != nil {
		b.Fatalf("RegisterCodecs: %v", err)
	}
	return reg
}

// prefillMirror stores count sessions spread over 1000 users.
func prefillMirror(b *testing.B, m *service.Mirror, count int) []*domain.Session {
	b.Helper()
	sessions := make([]*domain.Session, count)
	for i := range sessions {
		sessions[i] = createSession(b, fmt.Sprintf("user-%d", i%1000))
		m.ReceivedObject(sessions[i], cluster.OpWrite)
	}
	return sessions
}

// reportMemory reports heap usage after a GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}

// runWithSessionCounts runs benchFn once per mirror size.
func runWithSessionCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("sessions_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
