package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fundregistry/internal/platform/config"
	"fundregistry/internal/platform/httpserver"
	"fundregistry/internal/platform/logger"
	"fundregistry/internal/platform/middleware"
	registrycfg "fundregistry/internal/registry/config"
	"fundregistry/internal/registry/handler"
	"fundregistry/internal/registry/metrics"
	"fundregistry/internal/registry/service"
	"fundregistry/internal/registry/store"
	"fundregistry/internal/review"
)

// main wires dependencies and keeps the server lifecycle small. Resolution
// logic lives in internal/registry.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx := context.Background()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("store init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	publisher, closeReview, err := openReviewPublisher(ctx, cfg, log)
	if err != nil {
		log.Error("review publisher init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeReview()

	resolver, err := service.New(ctx, st, registrycfg.Default(),
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithReviewPublisher(publisher),
	)
	if err != nil {
		log.Error("registry load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())
	handler.New(resolver).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting fundregistry", slog.String("addr", cfg.Addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config) (service.Store, func(), error) {
	if cfg.PostgresURL == "" {
		return store.NewInMemory(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pg, func() { _ = db.Close() }, nil
}

func openReviewPublisher(ctx context.Context, cfg config.Config, log *slog.Logger) (review.Publisher, func(), error) {
	if cfg.KafkaBrokers == "" {
		return review.NewLogPublisher(log), func() {}, nil
	}

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	kafka, err := review.NewKafkaPublisher(ctx, brokers, cfg.ReviewTopic)
	if err != nil {
		return nil, nil, err
	}
	return kafka, kafka.Close, nil
}
