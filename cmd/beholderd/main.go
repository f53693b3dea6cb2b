package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"beholder/internal/config"
	"beholder/internal/daemon"
	"beholder/internal/jobs"
	"beholder/internal/logging"
	"beholder/internal/store"
	"beholder/internal/subscriber"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	stateStore, err := store.OpenRedis(ctx, cfg)
	if err != nil {
		logger.Error("open state store", "error", err)
		return
	}
	defer stateStore.Close()

	jobStore, err := jobs.Open(cfg)
	if err != nil {
		logger.Error("open job store", "error", err)
		return
	}
	defer jobStore.Close()

	router, tracker := newRouter(cfg, stateStore, jobStore, logger)

	sub, err := subscriber.New(ctx, cfg, router, logger)
	if err != nil {
		logger.Error("create subscriber", "error", err)
		return
	}

	d, err := daemon.New(cfg, sub, tracker, logger)
	if err != nil {
		logger.Error("create daemon", "error", err)
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", "error", err)
		return
	}

	<-ctx.Done()
	logger.Info("beholderd shutting down")
}
