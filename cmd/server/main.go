package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dgnsrekt/catalog-stream/internal/broadcast"
	"github.com/dgnsrekt/catalog-stream/internal/catalog"
	"github.com/dgnsrekt/catalog-stream/internal/config"
	"github.com/dgnsrekt/catalog-stream/internal/logging"
	"github.com/dgnsrekt/catalog-stream/internal/notify"
	"github.com/dgnsrekt/catalog-stream/internal/server"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "catalog-server",
		Short:        "Serve the record catalog and its live creation stream",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", os.Getenv("CATALOG_CONFIG"), "config file path (or set CATALOG_CONFIG)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Setup signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger, err := logging.New("server", verbose, &cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Backend),
		zap.Int("queueSize", cfg.Stream.QueueSize),
		zap.Int("retention", cfg.Stream.Retention),
		zap.Bool("wsEnabled", cfg.Stream.WSEnabled),
		zap.Bool("notifyEnabled", cfg.Notify.Enabled),
		zap.Float64("writeRate", cfg.Server.WriteRatePerSecond),
	)

	st, err := store.Open(ctx, cfg.Store.Backend, cfg.Store.Path, store.RedisOptions{
		Addr:     cfg.Store.RedisAddr,
		Password: cfg.Store.RedisPassword,
		DB:       cfg.Store.RedisDB,
		Prefix:   cfg.Store.RedisPrefix,
	})
	if err != nil {
		logger.Error("failed to open store", zap.Error(err))
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	b := broadcast.New(broadcast.Options{
		QueueSize: cfg.Stream.QueueSize,
		Retention: cfg.Stream.Retention,
	}, logger.Named("broadcast"))
	defer b.Close()

	svc := catalog.NewService(st, b, logger.Named("catalog"))
	srv := server.NewServer(svc, b, cfg, logger.Named("server"))

	router, err := server.NewRouter(srv, logger)
	if err != nil {
		logger.Error("failed to create router", zap.Error(err))
		return err
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.Notify.Enabled {
		notifier := notify.New(cfg.Notify, logger.Named("notify"))
		g.Go(func() error {
			return notify.Watch(gctx, b, notifier, logger.Named("notify"))
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		// Ends every open stream; Shutdown waits for their handlers.
		b.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
