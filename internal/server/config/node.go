package config

import "time"

// NodeConfig is the root configuration for aaamesh-node.
type NodeConfig struct {
	Cluster  ClusterSection  `koanf:"cluster"`
	Peers    []string        `koanf:"peers"`
	Mirror   MirrorSection   `koanf:"mirror"`
	HTTP     HTTPSection     `koanf:"http"`
	Log      LogSection      `koanf:"log"`
	Shutdown ShutdownSection `koanf:"shutdown"`
}

// ClusterSection configures the replication node.
type ClusterSection struct {
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
	AuxPort int    `koanf:"aux_port"`

	DialTimeout    time.Duration `koanf:"dial_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	MaxPayloadSize int           `koanf:"max_payload_size"`

	DeliveryQueueSize    int `koanf:"delivery_queue_size"`
	BroadcastConcurrency int `koanf:"broadcast_concurrency"`

	AcceptRate  float64 `koanf:"accept_rate"`
	AcceptBurst int     `koanf:"accept_burst"`

	// HashedNames sends murmur3 hashes instead of qualified type names.
	// Every node of a cluster must use the same setting.
	HashedNames bool `koanf:"hashed_names"`
}

// MirrorSection configures the replicated state mirror.
type MirrorSection struct {
	// SweepInterval is how often expired sessions are dropped. 0 disables it.
	SweepInterval time.Duration `koanf:"sweep_interval"`
	// Shards is the number of map shards (power of two).
	Shards int `koanf:"shards"`
}

// HTTPSection configures the admin HTTP server (status, metrics and the
// session API).
type HTTPSection struct {
	// Addr is the listen address. Empty disables the server.
	Addr string `koanf:"addr"`
	// BearerToken, when set, is required on every endpoint except
	// /health and /ready.
	BearerToken string `koanf:"bearer_token"`
	// MetricsPublic exempts /metrics from the bearer token.
	MetricsPublic bool `koanf:"metrics_public"`
	// RateLimit is the per-client request rate. 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// TLSCertFile and TLSKeyFile switch Addr to HTTPS. The pair is
	// reloaded when the files change.
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// SocketPath also serves the API on a Unix socket without the bearer
	// token. Empty disables it.
	SocketPath string `koanf:"socket_path"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// File redirects logs from stderr to a rotated file.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// ShutdownSection configures graceful shutdown.
type ShutdownSection struct {
	Timeout time.Duration `koanf:"timeout"`
}
