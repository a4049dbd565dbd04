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
	"github.com/saludya/telemed-backend/internal/appointment"
	"github.com/saludya/telemed-backend/internal/config"
	"github.com/saludya/telemed-backend/internal/db"
	"github.com/saludya/telemed-backend/internal/directory"
	redisclient "github.com/saludya/telemed-backend/internal/redis"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}

	setupLogging(cfg)
	logrus.Infof("appointment-server starting in env=%s port=%s", cfg.Env, cfg.AppointmentHTTPPort)

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
	err = db.EnsureAppointmentSchema(schemaCtx, pgPool)
	cancelSchema()
	if err != nil {
		logrus.Fatalf("schema error: %v", err)
	}

	// Redis only backs the directory lookup cache. Running without it is
	// degraded but functional.
	var cache redisclient.LookupCache
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logrus.Warnf("redis unavailable, directory cache disabled: %v", err)
		rdb = nil
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				logrus.Warnf("error closing redis: %v", err)
			}
		}()
		cache = redisclient.NewLookupCache(rdb, cfg.DirectoryCacheTTL)
		logrus.Info("connected to Redis")
	}

	users := directory.NewClient(directory.ClientConfig{
		Kind:    "user",
		BaseURL: cfg.UserServiceURL,
		Timeout: cfg.DirectoryTimeout,
		Cache:   cache,
	})
	doctors := directory.NewClient(directory.ClientConfig{
		Kind:    "doctor",
		BaseURL: cfg.CatalogServiceURL + "/doctors",
		Timeout: cfg.DirectoryTimeout,
		Cache:   cache,
	})

	repo := appointment.NewPgRepository(pgPool)
	svc := appointment.NewService(repo, users, doctors)

	router := api.NewAppointmentRouter(api.AppointmentRouterConfig{
		Service: svc,
		PgPool:  pgPool,
		Redis:   rdb,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppointmentHTTPPort,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("http server error: %v", err)
		}
	}()
	logrus.Infof("appointment-server listening on :%s", cfg.AppointmentHTTPPort)

	<-rootCtx.Done()
	logrus.Info("shutting down appointment-server")

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
