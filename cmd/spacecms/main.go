// Package main is the entry point for the SPACE CMS server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spacecms/internal/cache"
	"spacecms/internal/config"
	"spacecms/internal/database"
	"spacecms/internal/handlers"
	"spacecms/internal/janitor"
	"spacecms/internal/router"
	"spacecms/internal/session"
	"spacecms/internal/storage"
	"spacecms/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session cookies are Secure outside development.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	userStore := store.NewAdminUserStore(db)
	contentStore := store.NewContentStore(db)
	mediaStore := store.NewMediaStore(db)
	settingStore := store.NewSiteSettingStore(db)

	// Object storage is optional; media upload and the janitor are
	// disabled without it.
	var storageClient *storage.Client
	if cfg.StorageConfigured() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize object storage", "error", err)
			os.Exit(1)
		}
		slog.Info("object storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("object storage not configured, media uploads disabled")
	}

	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	r := router.New(router.Deps{
		Sessions:   sessionStore,
		Users:      userStore,
		Auth:       handlers.NewAuth(sessionStore, userStore),
		UserAdmin:  handlers.NewUsers(userStore),
		Content:    handlers.NewContent(contentStore, pageCache),
		Media:      handlers.NewMedia(mediaStore, storageClient, pageCache),
		Settings:   handlers.NewSettings(settingStore, pageCache),
		Public:     handlers.NewPublic(contentStore, settingStore, pageCache),
		Ops:        handlers.NewOps(db, contentStore, mediaStore, userStore, settingStore, storageClient),
		SEO:        handlers.NewSEO(contentStore, mediaStore, cfg.SiteURL),
		MediaTools: handlers.NewMediaTools(contentStore, storageClient, pageCache),
	})

	// Hourly sweep of bucket objects no media row references anymore.
	if cfg.JanitorEnabled {
		jan := janitor.New(mediaStore, storageClient)
		if err := jan.Start(); err != nil {
			slog.Error("failed to start janitor", "error", err)
			os.Exit(1)
		}
		defer jan.Stop()
	}

	// WriteTimeout covers media uploads against slow object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
