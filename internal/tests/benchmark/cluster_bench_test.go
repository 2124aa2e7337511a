package benchmark

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/aaamesh-go/pkg/bytebuf"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

// BenchmarkFrameAppendRead benchmarks framing and parsing one object.
func BenchmarkFrameAppendRead(b *testing.B) {
	f := cluster.Frame{
		Op:      cluster.OpWrite,
		Type:    "github.com/yndnr/aaamesh-go/internal/core/domain.Session",
		Payload: make([]byte, 160),
	}
	buf := bytebuf.New(512)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := f.AppendTo(buf); err != nil {
			b.Fatal(err)
		}
		if _, err := cluster.ReadFrame(buf, cluster.DefaultMaxPayloadSize); err != nil {
			b.Fatal(err)
		}
	}
}

type countingListener struct{ n atomic.Int64 }

func (l *countingListener) ReceivedObject(any, cluster.OpCode) { l.n.Add(1) }

func startBenchNode(b *testing.B, l cluster.Listener) *cluster.Node {
	b.Helper()
	cfg := cluster.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.AuxPort = 0
	cfg.Logger = discard
	n, err := cluster.Listen(cfg, newRegistry(b), l)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = n.Shutdown(ctx)
	})
	<-n.Ready()
	return n
}

// BenchmarkBroadcast benchmarks WriteObject fan-out to a growing number
// of loopback peers, waiting until every peer has received every frame.
func BenchmarkBroadcast(b *testing.B) {
	for _, peers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("peers_%d", peers), func(b *testing.B) {
			sender := startBenchNode(b, &countingListener{})
			sink := &countingListener{}
			for i := 0; i < peers; i++ {
				p := startBenchNode(b, sink)
				if _, err := sender.ConnectTo(context.Background(), "127.0.0.1", p.Identity().Port); err != nil {
					b.Fatal(err)
				}
			}
			for len(sender.Peers()) < peers {
				time.Sleep(time.Millisecond)
			}
			s := createSession(b, "alice")

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := sender.WriteObject(s); err != nil {
					b.Fatal(err)
				}
			}
			want := int64(b.N * peers)
			for sink.n.Load() < want {
				time.Sleep(50 * time.Microsecond)
			}
		})
	}
}
