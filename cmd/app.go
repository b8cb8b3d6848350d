package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"emergencyHub/internal/components"
	"emergencyHub/internal/config"
	"emergencyHub/internal/telemetry"
)

const (
	serviceName = "emergencyHub"
	version     = "1.0.0"
)

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", "err", err)
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	shutdownTracer, err := telemetry.InitTracer(cfg.TelemetryEnabled, serviceName, version)
	if err != nil {
		logger.Error("init tracer failed", "err", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := components.InitComponents(ctx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer logger.Info("http server stopped")
		return comps.HttpServer.Run(gctx)
	})
	if comps.WebhookSender != nil {
		g.Go(func() error {
			comps.WebhookSender.Run(gctx)
			return nil
		})
	}
	if comps.CacheRefresher != nil {
		g.Go(func() error {
			comps.CacheRefresher.Run(gctx)
			return nil
		})
	}

	<-gctx.Done()
	if ctx.Err() != nil {
		logger.Info("captured signal, initiating shutdown")
	}

	runErr := g.Wait()
	if runErr != nil {
		logger.Error("service failed", "err", runErr)
	}

	logger.Info("shutting down the services...")
	comps.ShutdownAll()
	if err := shutdownTracer(context.Background()); err != nil {
		logger.Error("tracer shutdown failed", "err", err)
	}
	logger.Info("gracefully shut down")

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
