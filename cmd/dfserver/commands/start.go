package commands

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/marmos91/dfcache/internal/logger"
	"github.com/marmos91/dfcache/internal/server"
	"github.com/marmos91/dfcache/pkg/cache"
	"github.com/marmos91/dfcache/pkg/config"
	"github.com/marmos91/dfcache/pkg/dfcache"
	dfprom "github.com/marmos91/dfcache/pkg/metrics/prometheus"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the cache server",
	RunE:  runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()

	var (
		cacheOpts  []cache.Option
		serverOpts []server.Option
	)
	if cfg.Metrics.Enabled {
		cacheOpts = append(cacheOpts, cache.WithMetrics(dfprom.NewCacheMetrics(reg)))
		serverOpts = append(serverOpts, server.WithMetrics(dfprom.NewServerMetrics(reg)))

		mux := http.NewServeMux()
		mux.Handle("/metrics", dfprom.Handler(reg))
		metricsAddr := net.JoinHostPort("", strconv.Itoa(cfg.Metrics.Port))
		metricsSrv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		go func() {
			<-ctx.Done()
			metricsSrv.Close()
		}()
		logger.Info("metrics enabled", "port", cfg.Metrics.Port)
	}

	files := cache.New(cfg.Cache.RootPath, int64(cfg.Cache.MaxMemory), cacheOpts...)

	tableOpts := append([]cache.Option{cache.WithSuffix(".df")}, cacheOpts...)
	tables := dfcache.New(cfg.Cache.RootPath, int64(cfg.Cache.MaxMemory), tableOpts...)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv := server.New(server.Config{Addr: addr}, files, tables, serverOpts...)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx) }()

	logger.Info("cache server listening", "addr", addr, "root_path", cfg.Cache.RootPath, "max_memory", cfg.Cache.MaxMemory.String())

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
		return <-serveErr
	case err := <-serveErr:
		return err
	}
}
