// Package main is the entry point for the Kelly allocation HTTP service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jingmouren/gitlab-in-silico-public-charlie/internal/config"
	"github.com/jingmouren/gitlab-in-silico-public-charlie/internal/modules/kelly"
	"github.com/jingmouren/gitlab-in-silico-public-charlie/internal/server"
	"github.com/jingmouren/gitlab-in-silico-public-charlie/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	kellyOpts := kelly.Options{
		Tolerance:      cfg.SolverTolerance,
		MaxIterations:  cfg.SolverMaxIter,
		MaxConstraints: cfg.MaxConstraints,
		Workers:        cfg.WorkerPoolSize,
		Log:            log,
	}

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
		KellyOpts: kellyOpts,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Info().Err(err).Msg("HTTP server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
