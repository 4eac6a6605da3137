package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthhq/hearth/internal/config"
	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/logging"
	"github.com/hearthhq/hearth/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		logger.Warn("HEARTH_JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.PushScheduler().Start(ctx)
	srv.BackupManager().Start(ctx)

	// Hourly housekeeping: idle rate limiter buckets and push rows
	// delivered more than thirty days ago.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
				if err := srv.PushStore().CleanupSent(time.Now().AddDate(0, 0, -30)); err != nil {
					logger.Error("failed to clean up sent notifications", "error", err)
				}
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("hearth listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}

	srv.PushScheduler().Stop()
	srv.BackupManager().Stop()
}

// randomSecret covers a missing HEARTH_JWT_SECRET so the server still
// boots; issued tokens become invalid on restart.
func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("failed to generate signing secret: %v", err)
	}
	return hex.EncodeToString(buf)
}
