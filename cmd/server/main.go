package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "hrportal-backend/docs"
	"hrportal-backend/internal/accounts"
	"hrportal-backend/internal/auth"
	"hrportal-backend/internal/config"
	"hrportal-backend/internal/events"
	"hrportal-backend/internal/handlers"
	"hrportal-backend/internal/logger"
	"hrportal-backend/internal/natsbus"
	"hrportal-backend/internal/services"
	"hrportal-backend/internal/storage"
	"hrportal-backend/internal/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Account store
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open account store", zap.Error(err))
	}
	defer store.Close()
	log.Info("Account store ready", zap.String("driver", cfg.Storage.Driver))

	// Verification documents
	docs, err := openUploads(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open upload area", zap.Error(err))
	}
	log.Info("Upload area ready", zap.String("backend", cfg.Uploads.Backend))

	// Reviewer notifications
	var publishers events.Multi
	if cfg.NATS.URL != "" {
		natsClient, err := natsbus.Connect(cfg.NATS.URL, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsClient.Close()
		publishers = append(publishers, natsClient)
	}
	if cfg.Slack.WebhookURL != "" {
		publishers = append(publishers, services.NewSlackClient(cfg.Slack.WebhookURL, cfg.Slack.BaseURL))
	}

	// Admin guard
	var issuer *auth.Issuer
	if cfg.Admin.JWTSecret != "" {
		issuer, err = auth.NewIssuer(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
		if err != nil {
			log.Fatal("Failed to create admin token issuer", zap.Error(err))
		}
	} else {
		log.Warn("ADMIN_JWT_SECRET is not set; admin and upload routes are unauthenticated")
	}

	svc := accounts.NewService(store, docs, publishers, log)

	h, err := handlers.New(svc, issuer, cfg.Uploads.MaxBytes, log)
	if err != nil {
		log.Fatal("Failed to load templates", zap.Error(err))
	}

	// Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("Server starting", zap.String("addr", cfg.Server.Addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
	log.Info("Server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.AccountStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return storage.ConnectMongo(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	case config.DriverMemory:
		log.Warn("Using in-memory account store; data is lost on restart")
		return storage.NewMemoryStorage(), nil
	default:
		db, err := storage.ConnectPostgres(cfg.DatabaseDSN(), 10, log)
		if err != nil {
			return nil, err
		}
		if err := storage.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return storage.NewStorage(db), nil
	}
}

func openUploads(ctx context.Context, cfg *config.Config) (uploads.Store, error) {
	if cfg.Uploads.Backend == config.BackendS3 {
		return uploads.NewS3Store(ctx, uploads.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	}
	return uploads.NewLocalStore(cfg.Uploads.Dir)
}
