package benchmark

import (
	"fmt"
	"testing"
	"time"

	"github.com/yndnr/aaamesh-go/internal/core/domain"
	"github.com/yndnr/aaamesh-go/internal/core/service"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

// BenchmarkMirrorWrite benchmarks applying full replacements on top of a
// prefilled mirror.
func BenchmarkMirrorWrite(b *testing.B) {
	runWithSessionCounts(b, SmallSessionCounts, func(b *testing.B, count int) {
		m := service.NewMirror(discard)
		prefillMirror(b, m, count)
		fresh := make([]*domain.Session, 1024)
		for i := range fresh {
			fresh[i] = createSession(b, fmt.Sprintf("bench-user-%d", i))
		}

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := m.Apply(fresh[i%len(fresh)], cluster.OpWrite); err != nil {
				b.Fatal(err)
			}
		}
		b.StopTimer()
		reportMemory(b, "mem")
	})
}

// BenchmarkMirrorUpdate benchmarks merging partial updates.
func BenchmarkMirrorUpdate(b *testing.B) {
	runWithSessionCounts(b, SmallSessionCounts, func(b *testing.B, count int) {
		m := service.NewMirror(discard)
		sessions := prefillMirror(b, m, count)
		inactive := false

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			patch := &domain.Session{ID: sessions[i%len(sessions)].ID, Active: &inactive}
			if err := m.Apply(patch, cluster.OpUpdate); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkMirrorGet benchmarks session lookups by ID.
func BenchmarkMirrorGet(b *testing.B) {
	counts := SmallSessionCounts
	if !testing.Short() {
		counts = SessionCounts
	}
	runWithSessionCounts(b, counts, func(b *testing.B, count int) {
		m := service.NewMirror(discard)
		sessions := prefillMirror(b, m, count)

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := m.Session(sessions[i%len(sessions)].ID); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkMirrorGetParallel benchmarks concurrent lookups across shards.
func BenchmarkMirrorGetParallel(b *testing.B) {
	for _, shards := range []int{1, 16, 64} {
		b.Run(fmt.Sprintf("shards_%d", shards), func(b *testing.B) {
			m := service.NewMirrorWithShards(discard, shards)
			sessions := prefillMirror(b, m, 10000)

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					_, _ = m.Session(sessions[i%len(sessions)].ID)
					i++
				}
			})
		})
	}
}

// BenchmarkMirrorSessionsOf benchmarks the per-user scan used by
// user revocation.
func BenchmarkMirrorSessionsOf(b *testing.B) {
	runWithSessionCounts(b, SmallSessionCounts, func(b *testing.B, count int) {
		m := service.NewMirror(discard)
		prefillMirror(b, m, count)

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = m.SessionsOf(fmt.Sprintf("user-%d", i%1000))
		}
	})
}

// BenchmarkMirrorSweep benchmarks a sweep pass with nothing expired.
func BenchmarkMirrorSweep(b *testing.B) {
	runWithSessionCounts(b, SmallSessionCounts, func(b *testing.B, count int) {
		m := service.NewMirror(discard)
		prefillMirror(b, m, count)
		now := time.Now()

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if n := m.Sweep(now); n != 0 {
				b.Fatalf("swept %d live sessions", n)
			}
		}
	})
}
