package cluster

import (
	"log/slog"
	"time"
)

// Default ports, matching the historical AAA cluster defaults.
const (
	DefaultPort    = 32110
	DefaultAuxPort = 32111
)

// Config holds the cluster node configuration.
type Config struct {
	// Host is the bind address ("" binds all interfaces).
	Host string
	// Port is the listen port. 0 picks an ephemeral port, see Node.Addr.
	Port int
	// AuxPort is the secondary port carried in the node identity.
	AuxPort int

	// DialTimeout bounds ConnectTo (default: 5s).
	DialTimeout time.Duration
	// WriteTimeout bounds writing one frame to one peer. 0 disables it.
	WriteTimeout time.Duration
	// MaxPayloadSize bounds inbound frame payloads (default: 16 MiB).
	MaxPayloadSize int

	// DeliveryQueueSize enables a bounded per-connection delivery queue
	// drained by a dedicated goroutine. 0 delivers on the reader goroutine.
	DeliveryQueueSize int
	// BroadcastConcurrency limits parallel peer writes per broadcast
	// (default: 8).
	BroadcastConcurrency int

	// AcceptRate limits accepted connections per second. 0 is unlimited.
	AcceptRate float64
	// AcceptBurst is the accept limiter burst (default: 1 when limited).
	AcceptBurst int

	// Logger for logging (default: slog.Default()).
	Logger *slog.Logger
	// Metrics receives activity callbacks (default: no-op).
	Metrics Metrics
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Port:                 DefaultPort,
		AuxPort:              DefaultAuxPort,
		DialTimeout:          5 * time.Second,
		MaxPayloadSize:       DefaultMaxPayloadSize,
		BroadcastConcurrency: 8,
	}
}

func (c *Config) applyDefaults() {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.MaxPayloadSize <= 0 {
		c.MaxPayloadSize = DefaultMaxPayloadSize
	}
	if c.BroadcastConcurrency <= 0 {
		c.BroadcastConcurrency = 8
	}
	if c.AcceptRate > 0 && c.AcceptBurst <= 0 {
		c.AcceptBurst = 1
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Metrics == nil {
		c.Metrics = nopMetrics{}
	}
}
