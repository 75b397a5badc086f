// zol-track server
//
// Job-application tracker backend:
//   - REST API for application CRUD, filtering, and status moves
//     (the kanban board client drives status via PUT /applications/{id})
//   - Redis-backed session resolution on every protected route
//   - EVENT_CARD_MOVED published to Redis on status changes for SSE forward
//   - retention sweep purging soft-deleted rows on a cron schedule
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/masadamsahid/zol-track/internal/apps"
	"github.com/masadamsahid/zol-track/internal/auth"
	"github.com/masadamsahid/zol-track/internal/config"
	"github.com/masadamsahid/zol-track/internal/db"
	"github.com/masadamsahid/zol-track/internal/retention"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[zol-track] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[zol-track] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[zol-track] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[zol-track] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[zol-track] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[zol-track] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[zol-track] Redis connected ✓")

	// ── Retention sweep ──────────────────────────────────────────────────────
	sweeper := retention.New(pool, cfg.SweepIntervalH, cfg.RetentionDays)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("[zol-track] Retention sweeper: %v", err)
	}
	defer sweeper.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	svc := apps.NewService(apps.NewPgStore(pool), apps.NewRedisPublisher(rdb))
	handler := apps.NewHandler(svc)
	sessions := auth.NewRedisResolver(rdb, time.Duration(cfg.SessionTTLHours)*time.Hour)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(sessions))
		handler.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[zol-track] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[zol-track] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[zol-track] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[zol-track] Shutdown error: %v", err)
	}
	log.Println("[zol-track] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "zol-track",
		"version": version,
	})
}
