package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tsanders-rh/ocpconsole/internal/apiclient"
	"github.com/tsanders-rh/ocpconsole/internal/config"
	"github.com/tsanders-rh/ocpconsole/internal/console"
	"github.com/tsanders-rh/ocpconsole/internal/form"
	"github.com/tsanders-rh/ocpconsole/internal/newcluster"
	"github.com/tsanders-rh/ocpconsole/internal/pullsecret"
	"github.com/tsanders-rh/ocpconsole/internal/store"
	"github.com/tsanders-rh/ocpconsole/internal/telemetry"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONSOLE_CONFIG"), "path to the console YAML configuration")
	flag.Parse()

	log := logrus.NewEntry(logrus.StandardLogger())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)
	log = log.WithField("component", "console")

	if !cfg.Auth.Enabled {
		log.Warn("Authentication is disabled. Every request is served as the anonymous user!")
	}

	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	if cfg.API.Token != "" {
		client = client.WithToken(cfg.API.Token)
	}

	ctx := context.Background()
	checks := map[string]console.Pinger{"api": client}

	var (
		source pullsecret.Source = pullsecret.Static{}
		saver  pullsecret.Saver
	)

	switch cfg.PullSecret.Source {
	case config.PullSecretSourcePostgres:
		log.Println("Connecting to database...")
		st, err := store.NewStore(ctx, store.DefaultConfig(cfg.PullSecret.DatabaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer st.Close()

		log.Println("Running database migrations...")
		if err := st.Migrate(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		source = st.PullSecrets
		saver = st.PullSecrets
		checks["database"] = st

	case config.PullSecretSourceS3:
		s3Source, err := pullsecret.NewS3SourceFromEnv(ctx, cfg.PullSecret.Region, cfg.PullSecret.Bucket, cfg.PullSecret.Prefix)
		if err != nil {
			log.Fatalf("Failed to create S3 pull secret source: %v", err)
		}
		source = s3Source
		saver = s3Source
	}

	if !cfg.PullSecret.Remember {
		saver = nil
	}

	validator := form.NewValidator()
	page := newcluster.New(newcluster.Options{
		BasePath:    cfg.BasePath,
		Clusters:    client,
		Versions:    client,
		PullSecrets: source,
		Saver:       saver,
		Telemetry:   telemetry.NewLogReporter(log.WithField("component", "telemetry")),
		Validator:   validator,
		Log:         log.WithField("component", "new-cluster"),
	})

	log.WithFields(logrus.Fields{
		"port":               cfg.Port,
		"base_path":          cfg.BasePath,
		"api_url":            cfg.API.URL,
		"auth_enabled":       cfg.Auth.Enabled,
		"pull_secret_source": cfg.PullSecret.Source,
	}).Info("Console configured")

	server, err := console.NewServer(cfg, page, validator, checks, os.Stdout, log)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down console...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Console exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
