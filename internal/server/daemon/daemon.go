package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/yndnr/aaamesh-go/internal/core/service"
	"github.com/yndnr/aaamesh-go/internal/infra/tlsroots"
	"github.com/yndnr/aaamesh-go/internal/server/config"
	"github.com/yndnr/aaamesh-go/internal/server/httpserver"
	"github.com/yndnr/aaamesh-go/internal/server/localserver"
	"github.com/yndnr/aaamesh-go/internal/telemetry/metric"
	"github.com/yndnr/aaamesh-go/pkg/cluster"
	"github.com/yndnr/aaamesh-go/pkg/codec"
)

// Peer dial retry bounds.
const (
	dialRetryMin = 500 * time.Millisecond
	dialRetryMax = 30 * time.Second
)

// Daemon is one running node.
type Daemon struct {
	cfg       *config.NodeConfig
	logger    *slog.Logger
	metrics   *metric.Registry
	mirror    *service.Mirror
	node      *cluster.Node
	publisher *service.Publisher
	http      *httpserver.Server
	local     *localserver.Server
	certs     *tlsroots.Watcher

	mu       sync.Mutex
	httpAddr net.Addr
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New builds a daemon. Nothing is bound until Start.
func New(cfg *config.NodeConfig, logger *slog.Logger) (*Daemon, error) {
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Daemon{
		cfg:     cfg,
		logger:  logger,
		metrics: metric.NewRegistry(),
	}

	registry := codec.NewRegistry(config.CodecOptions(cfg)...)
	if err := service.RegisterCodecs(registry); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	d.mirror = service.NewMirrorWithShards(logger, cfg.Mirror.Shards)
	if err := d.metrics.Register(metric.NewMirrorCollector(d.mirror.Len)); err != nil {
		return nil, fmt.Errorf("register mirror metrics: %w", err)
	}

	clusterCfg, err := config.ToClusterConfig(cfg, logger, d.metrics)
	if err != nil {
		return nil, err
	}
	d.node, err = cluster.NewNode(clusterCfg, registry, d.mirror)
	if err != nil {
		return nil, err
	}
	d.publisher = service.NewPublisher(d.node, d.mirror, logger)

	routerCfg := httpserver.RouterConfig{
		Node:          d.node,
		Store:         d.mirror,
		Publisher:     d.publisher,
		Metrics:       d.metrics.Handler(),
		BearerToken:   cfg.HTTP.BearerToken,
		MetricsPublic: cfg.HTTP.MetricsPublic,
		RateLimit:     cfg.HTTP.RateLimit,
		Logger:        logger,
	}
	if cfg.HTTP.Addr != "" {
		d.http = httpserver.New(cfg.HTTP.Addr, httpserver.NewRouter(&routerCfg), logger)
	}
	if cfg.HTTP.SocketPath != "" {
		// The socket is guarded by file permissions instead.
		localCfg := routerCfg
		localCfg.BearerToken = ""
		localCfg.RateLimit = 0
		d.local = localserver.New(cfg.HTTP.SocketPath, httpserver.NewRouter(&localCfg), logger)
	}
	return d, nil
}

// Start binds the cluster port and the HTTP server, then dials the
// configured peers and starts the sweep loop in the background.
func (d *Daemon) Start(ctx context.Context) error {
	peers, err := config.ParsePeers(d.cfg.Peers)
	if err != nil {
		return err
	}

	if err := d.node.Start(); err != nil {
		return err
	}
	if err := d.startHTTP(); err != nil {
		_ = d.Shutdown(ctx)
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()

	for _, p := range peers {
		d.wg.Add(1)
		go d.dialPeer(loopCtx, p)
	}
	if iv := d.cfg.Mirror.SweepInterval; iv > 0 {
		d.wg.Add(1)
		go d.sweepLoop(loopCtx, iv)
	}

	d.logger.Info("aaamesh node started",
		"node", d.node.Identity().String(),
		"peers", len(peers))
	return nil
}

func (d *Daemon) startHTTP() error {
	if d.http != nil {
		if d.cfg.HTTP.TLSCertFile != "" {
			certs, err := tlsroots.NewWatcher(d.cfg.HTTP.TLSCertFile, d.cfg.HTTP.TLSKeyFile,
				tlsroots.WithLogger(d.logger))
			if err != nil {
				return err
			}
			d.mu.Lock()
			d.certs = certs
			d.mu.Unlock()
			d.http.SetTLSConfig(certs.ServerTLSConfig())
		}

		addr, err := d.http.Listen()
		if err != nil {
			return fmt.Errorf("http listen: %w", err)
		}
		d.mu.Lock()
		d.httpAddr = addr
		d.mu.Unlock()
	}
	if d.local != nil {
		if err := d.local.Listen(); err != nil {
			return err
		}
	}
	return nil
}

// dialPeer connects to p, retrying with backoff until it succeeds or ctx
// ends. A peer that later drops is not redialed.
func (d *Daemon) dialPeer(ctx context.Context, p config.PeerAddr) {
	defer d.wg.Done()

	backoff := dialRetryMin
	for {
		info, err := d.node.ConnectTo(ctx, p.Host, p.Port)
		if err == nil {
			d.logger.Info("connected to configured peer", "peer", p.String(), "conn", info.ID)
			return
		}
		if errors.Is(err, cluster.ErrNodeClosed) || ctx.Err() != nil {
			return
		}
		d.logger.Warn("peer dial failed, retrying", "peer", p.String(), "error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
		if backoff *= 2; backoff > dialRetryMax {
			backoff = dialRetryMax
		}
	}
}

func (d *Daemon) sweepLoop(ctx context.Context, interval time.Duration) {
	defer d.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			d.publisher.Sweep(now)
		case <-ctx.Done():
			return
		}
	}
}

// Shutdown stops background loops, the HTTP server and the cluster node.
// It returns the first error.
func (d *Daemon) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	var errs []error
	if d.http != nil {
		if err := d.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http: %w", err))
		}
	}
	if d.local != nil {
		if err := d.local.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("local socket: %w", err))
		}
	}
	d.mu.Lock()
	certs := d.certs
	d.mu.Unlock()
	if certs != nil {
		if err := certs.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("cert watcher: %w", err))
		}
	}
	if err := d.node.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("cluster: %w", err))
	}
	d.wg.Wait()
	return errors.Join(errs...)
}

// Node returns the cluster node.
func (d *Daemon) Node() *cluster.Node { return d.node }

// Mirror returns the replicated state mirror.
func (d *Daemon) Mirror() *service.Mirror { return d.mirror }

// Publisher returns the publisher for local changes.
func (d *Daemon) Publisher() *service.Publisher { return d.publisher }

// Metrics returns the metric registry.
func (d *Daemon) Metrics() *metric.Registry { return d.metrics }

// HTTPAddr returns the bound admin address, or nil when disabled or not
// started.
func (d *Daemon) HTTPAddr() net.Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.httpAddr
}
