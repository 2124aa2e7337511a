package config

import (
	"time"

	"github.com/yndnr/aaamesh-go/pkg/cluster"
)

// Default configuration values.
const (
	DefaultDialTimeout    = 5 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultBroadcastLimit = 8
	DefaultSweepInterval  = 30 * time.Second
	DefaultMirrorShards   = 16
	DefaultHTTPAddr       = "127.0.0.1:9110"
	DefaultHTTPRateLimit  = 200

	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28

	DefaultShutdownTimeout = 10 * time.Second
)

// Default returns the default node configuration.
func Default() *NodeConfig {
	return &NodeConfig{
		Cluster: ClusterSection{
			Port:                 cluster.DefaultPort,
			AuxPort:              cluster.DefaultAuxPort,
			DialTimeout:          DefaultDialTimeout,
			WriteTimeout:         DefaultWriteTimeout,
			MaxPayloadSize:       cluster.DefaultMaxPayloadSize,
			BroadcastConcurrency: DefaultBroadcastLimit,
		},
		Mirror: MirrorSection{
			SweepInterval: DefaultSweepInterval,
			Shards:        DefaultMirrorShards,
		},
		HTTP: HTTPSection{
			Addr:      DefaultHTTPAddr,
			RateLimit: DefaultHTTPRateLimit,
		},
		Log: LogSection{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
		Shutdown: ShutdownSection{
			Timeout: DefaultShutdownTimeout,
		},
	}
}
