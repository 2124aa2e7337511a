package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/yndnr/aaamesh-go/internal/telemetry/logger"
)

// ErrInvalidConfig is wrapped by every Verify failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// PeerAddr is a parsed entry of NodeConfig.Peers.
type PeerAddr struct {
	Host string
	Port int
}

// String returns "host:port".
func (p PeerAddr) String() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Verify validates the configuration.
func Verify(cfg *NodeConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := verifyCluster(&cfg.Cluster); err != nil {
		return err
	}
	if _, err := ParsePeers(cfg.Peers); err != nil {
		return err
	}
	if cfg.Mirror.SweepInterval < 0 {
		return invalid("mirror.sweep_interval must not be negative")
	}
	if s := cfg.Mirror.Shards; s < 0 || s&(s-1) != 0 {
		return invalid("mirror.shards must be a power of two")
	}
	if cfg.HTTP.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
			return invalid("http.addr %q: %v", cfg.HTTP.Addr, err)
		}
	}
	if cfg.HTTP.RateLimit < 0 {
		return invalid("http.rate_limit must not be negative")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return invalid("http.tls_cert_file and http.tls_key_file must be set together")
	}
	if cfg.HTTP.TLSCertFile != "" && cfg.HTTP.Addr == "" {
		return invalid("http.tls_cert_file needs http.addr")
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return invalid("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text", "console":
	default:
		return invalid("log.format %q is not one of json, text", cfg.Log.Format)
	}
	if cfg.Log.File != "" && cfg.Log.MaxSizeMB <= 0 {
		return invalid("log.max_size_mb must be positive")
	}
	if cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		return invalid("log.max_backups and log.max_age_days must not be negative")
	}
	if cfg.Shutdown.Timeout <= 0 {
		return invalid("shutdown.timeout must be positive")
	}
	return nil
}

func verifyCluster(c *ClusterSection) error {
	if !validPort(c.Port, true) {
		return invalid("cluster.port %d out of range", c.Port)
	}
	if !validPort(c.AuxPort, true) {
		return invalid("cluster.aux_port %d out of range", c.AuxPort)
	}
	if c.Port != 0 && c.Port == c.AuxPort {
		return invalid("cluster.port and cluster.aux_port must differ")
	}
	if c.Host != "" && net.ParseIP(c.Host) == nil {
		// Host names are allowed but must not carry a port.
		if strings.Contains(c.Host, ":") {
			return invalid("cluster.host %q must not include a port", c.Host)
		}
	}
	if c.DialTimeout < 0 || c.WriteTimeout < 0 {
		return invalid("cluster timeouts must not be negative")
	}
	if c.MaxPayloadSize < 0 || c.DeliveryQueueSize < 0 || c.BroadcastConcurrency < 0 {
		return invalid("cluster sizes must not be negative")
	}
	if c.AcceptRate < 0 || c.AcceptBurst < 0 {
		return invalid("cluster accept limits must not be negative")
	}
	return nil
}

// ParsePeers parses "host:port" peer entries.
func ParsePeers(peers []string) ([]PeerAddr, error) {
	out := make([]PeerAddr, 0, len(peers))
	for _, p := range peers {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		host, portStr, err := net.SplitHostPort(p)
		if err != nil {
			return nil, invalid("peer %q: %v", p, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil || !validPort(port, false) {
			return nil, invalid("peer %q: bad port", p)
		}
		if host == "" {
			return nil, invalid("peer %q: missing host", p)
		}
		out = append(out, PeerAddr{Host: host, Port: port})
	}
	return out, nil
}

func validPort(p int, allowZero bool) bool {
	if p == 0 {
		return allowZero
	}
	return p > 0 && p <= 65535
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
