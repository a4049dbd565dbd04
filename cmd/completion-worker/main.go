package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saludya/telemed-backend/internal/appointment"
	"github.com/saludya/telemed-backend/internal/config"
	"github.com/saludya/telemed-backend/internal/db"
	"github.com/saludya/telemed-backend/internal/directory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.Infof("completion-worker starting in env=%s interval=%s", cfg.Env, cfg.WorkerInterval)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logrus.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	logrus.Info("connected to Postgres")

	users := directory.NewClient(directory.ClientConfig{
		Kind:    "user",
		BaseURL: cfg.UserServiceURL,
		Timeout: cfg.DirectoryTimeout,
	})
	doctors := directory.NewClient(directory.ClientConfig{
		Kind:    "doctor",
		BaseURL: cfg.CatalogServiceURL + "/doctors",
		Timeout: cfg.DirectoryTimeout,
	})

	repo := appointment.NewPgRepository(pgPool)
	svc := appointment.NewService(repo, users, doctors)

	// Run once at startup
	runOnce(rootCtx, svc)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logrus.Info("shutdown signal received, stopping completion worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	if err := svc.CompleteElapsed(runCtx); err != nil {
		logrus.Warnf("completion run error: %v", err)
		return
	}
	logrus.Infof("completion run complete in %s", time.Since(start))
}
