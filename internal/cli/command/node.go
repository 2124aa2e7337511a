package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/aaamesh-go/internal/infra/buildinfo"
	"github.com/yndnr/aaamesh-go/internal/infra/confloader"
	"github.com/yndnr/aaamesh-go/internal/infra/shutdown"
	"github.com/yndnr/aaamesh-go/internal/server/config"
	"github.com/yndnr/aaamesh-go/internal/server/daemon"
	"github.com/yndnr/aaamesh-go/internal/telemetry/logger"
)

// nodeConfigFlags are shared by run and config.
func nodeConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the node configuration file (YAML)",
			EnvVars: []string{"AAAMESH_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Load AAAMESH_* variables from a dotenv file; variables already set win",
		},
		&cli.StringFlag{
			Name:  "listen",
			Usage: "Cluster listen address, host:port",
		},
		&cli.StringSliceFlag{
			Name:  "peer",
			Usage: "Peer to dial at startup, host:port (repeatable)",
		},
		&cli.StringFlag{
			Name:  "http-addr",
			Usage: "Admin HTTP address, empty to disable",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

// RunCommand returns the command that runs a node until signalled.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Run a replication node",
		Flags:  nodeConfigFlags(),
		Action: runNode,
	}
}

// loadNodeConfig merges defaults, the config file, AAAMESH_* variables
// (including those from --env-file) and flags, in that order of
// precedence, then verifies the result.
func loadNodeConfig(c *cli.Context) (*config.NodeConfig, *confloader.Loader, error) {
	if path := c.String("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, nil, fmt.Errorf("load env file: %w", err)
		}
	}

	overrides, err := flagOverrides(c)
	if err != nil {
		return nil, nil, err
	}

	cfg := config.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(c.String("config")))
	if err := loader.Load(cfg, overrides); err != nil {
		return nil, nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, loader, nil
}

func flagOverrides(c *cli.Context) (map[string]any, error) {
	m := map[string]any{}
	if c.IsSet("listen") {
		peers, err := config.ParsePeers([]string{c.String("listen")})
		if err != nil {
			return nil, fmt.Errorf("--listen: %w", err)
		}
		m["cluster.host"] = peers[0].Host
		m["cluster.port"] = peers[0].Port
	}
	if c.IsSet("peer") {
		m["peers"] = c.StringSlice("peer")
	}
	if c.IsSet("http-addr") {
		m["http.addr"] = c.String("http-addr")
	}
	if c.IsSet("log-level") {
		m["log.level"] = strings.ToLower(c.String("log-level"))
	}
	return m, nil
}

func runNode(c *cli.Context) error {
	cfg, loader, err := loadNodeConfig(c)
	if err != nil {
		return err
	}

	var output io.Writer = os.Stderr
	if cfg.Log.File != "" {
		file := logger.NewRotatingFile(logger.RotationConfig{
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		defer file.Close()
		output = file
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: output,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	ctx := logger.WithLogger(c.Context, log)
	ctx = logger.WithNodeID(ctx, fmt.Sprintf("%s:%d/%d", cfg.Cluster.Host, cfg.Cluster.Port, cfg.Cluster.AuxPort))
	slogger := logger.L(ctx).Slog()

	slogger.Info("starting aaamesh node",
		"version", buildinfo.Version,
		"commit", buildinfo.Get().Commit,
		"config", loader.FilePath())

	d, err := daemon.New(cfg, slogger)
	if err != nil {
		return err
	}
	if err := d.Start(ctx); err != nil {
		return err
	}

	handler := shutdown.NewHandler(cfg.Shutdown.Timeout).WithLogger(slogger)
	handler.OnShutdown("daemon", d.Shutdown)

	if path := loader.FilePath(); path != "" {
		watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(slogger))
		if err != nil {
			slogger.Warn("config watch disabled", "error", err)
		} else if err := watcher.Watch(path); err != nil {
			slogger.Warn("config watch disabled", "error", err)
			_ = watcher.Stop()
		} else {
			watcher.OnChange(func(string) { reloadLogLevel(c, slogger) })
			watcher.StartAsync()
			handler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	slogger.Info("node running, press Ctrl+C to stop")
	if err := handler.Wait(ctx); err != nil {
		slogger.Error("shutdown error", "error", err)
		return err
	}
	slogger.Info("node stopped")
	return nil
}

// reloadLogLevel applies the log level of a changed config file. Other
// settings need a restart.
func reloadLogLevel(c *cli.Context, log *slog.Logger) {
	cfg, _, err := loadNodeConfig(c)
	if err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	if strings.EqualFold(cfg.Log.Level, logger.CurrentLevel()) {
		return
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	log.Info("log level changed", "level", cfg.Log.Level)
}
