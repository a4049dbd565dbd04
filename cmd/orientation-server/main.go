package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saludya/telemed-backend/internal/api"
	"github.com/saludya/telemed-backend/internal/config"
	"github.com/saludya/telemed-backend/internal/db"
	"github.com/saludya/telemed-backend/internal/inference"
	"github.com/saludya/telemed-backend/internal/orientation"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}

	setupLogging(cfg)
	logrus.Infof("orientation-server starting in env=%s port=%s", cfg.Env, cfg.OrientationHTTPPort)

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

	schemaCtx, cancelSchema := context.WithTimeout(rootCtx, 10*time.Second)
	err = db.EnsureOrientationSchema(schemaCtx, pgPool)
	cancelSchema()
	if err != nil {
		logrus.Fatalf("schema error: %v", err)
	}

	var suggester orientation.SpecialtySuggester
	client := inference.NewClient(inference.ClientConfig{
		Endpoint: cfg.AIAPIURL,
		APIKey:   cfg.AIAPIKey,
		Model:    cfg.AIModel,
		Timeout:  cfg.AITimeout,
	})
	if client.IsConfigured() {
		suggester = client
		logrus.Infof("inference enabled with model=%s", cfg.AIModel)
	} else {
		logrus.Warn("AI_API_KEY not set, orientation runs on keyword scoring only")
	}

	repo := orientation.NewPgRepository(pgPool)
	svc := orientation.NewService(repo, suggester)

	router := api.NewOrientationRouter(api.OrientationRouterConfig{
		Service: svc,
		PgPool:  pgPool,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.OrientationHTTPPort,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("http server error: %v", err)
		}
	}()
	logrus.Infof("orientation-server listening on :%s", cfg.OrientationHTTPPort)

	<-rootCtx.Done()
	logrus.Info("shutting down orientation-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Warnf("http shutdown error: %v", err)
	}
}

func setupLogging(cfg config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
