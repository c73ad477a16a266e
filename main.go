// main.go - Achievement Portfolio API server
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"portfolio/config"
	"portfolio/database"
	"portfolio/handlers"
	"portfolio/services"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsingDevSecret {
		log.Warn("JWT_SECRET is not set, using the development secret")
	}

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", slog.Any("error", err))
		}
	}()

	n, err := database.SeedDefaultCategories(ctx, db)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("seeded default categories", slog.Int("count", n))
	}

	auth, err := services.NewAuthService(db, services.AuthOptions{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		return err
	}

	if cfg.Auth.AdminUsername != "" {
		created, err := auth.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			log.Info("created admin user", slog.String("username", cfg.Auth.AdminUsername))
		}
	}

	images, uploadDir, err := newImageStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	app := handlers.NewApp(handlers.Options{
		Logger:      log,
		FrontendURL: cfg.FrontendURL,
		RateLimit:   cfg.RateLimit,
		UploadDir:   uploadDir,
	}, handlers.Services{
		DB:           db,
		Auth:         auth,
		Categories:   services.NewCategoryService(db),
		Achievements: services.NewAchievementService(db, images, log),
		Stats:        services.NewStatsService(db),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting",
			slog.String("port", cfg.Port),
			slog.String("env", cfg.AppEnv),
			slog.String("db", cfg.DB.Driver),
			slog.String("storage", cfg.Storage.Driver),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newImageStore returns the configured store and, for local storage, the
// directory to serve uploads from.
func newImageStore(ctx context.Context, cfg config.StorageConfig) (services.ImageStore, string, error) {
	if cfg.Driver == config.StorageS3 {
		store, err := services.NewS3ImageStore(ctx, services.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		return store, "", err
	}

	store, err := services.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
