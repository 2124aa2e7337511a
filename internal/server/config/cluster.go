package config

import (
	"fmt"
	"log/slog"

	"github.com/yndnr/aaamesh-go/pkg/cluster"
	"github.com/yndnr/aaamesh-go/pkg/codec"
)

// ToClusterConfig converts the cluster section to cluster.Config.
func ToClusterConfig(cfg *NodeConfig, logger *slog.Logger, metrics cluster.Metrics) (cluster.Config, error) {
	if cfg == nil {
		return cluster.Config{}, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	c := cfg.Cluster
	return cluster.Config{
		Host:                 c.Host,
		Port:                 c.Port,
		AuxPort:              c.AuxPort,
		DialTimeout:          c.DialTimeout,
		WriteTimeout:         c.WriteTimeout,
		MaxPayloadSize:       c.MaxPayloadSize,
		DeliveryQueueSize:    c.DeliveryQueueSize,
		BroadcastConcurrency: c.BroadcastConcurrency,
		AcceptRate:           c.AcceptRate,
		AcceptBurst:          c.AcceptBurst,
		Logger:               logger,
		Metrics:              metrics,
	}, nil
}

// CodecOptions returns the codec registry options for the cluster section.
func CodecOptions(cfg *NodeConfig) []codec.Option {
	if cfg != nil && cfg.Cluster.HashedNames {
		return []codec.Option{codec.WithNaming(codec.HashedName)}
	}
	return nil
}
