package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sograves/hpk14-padel/internal/api"
	"github.com/sograves/hpk14-padel/internal/auth"
	"github.com/sograves/hpk14-padel/internal/config"
	"github.com/sograves/hpk14-padel/internal/domain"
	"github.com/sograves/hpk14-padel/internal/events"
	"github.com/sograves/hpk14-padel/internal/observability"
	"github.com/sograves/hpk14-padel/internal/persistence"
	"github.com/sograves/hpk14-padel/internal/tablestore"
	httptransport "github.com/sograves/hpk14-padel/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.UsesDefaultTeamCode() {
		log.Printf("WARNING: TEAM_CODE not set, using the insecure local-dev fallback")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	store := tablestore.NewStore(pool)
	if err := store.EnsureTables(ctx); err != nil {
		log.Fatalf("failed to initialize tables: %v", err)
	}

	activities, err := persistence.NewActivities(store)
	if err != nil {
		log.Fatalf("failed to bind activities table: %v", err)
	}
	signups, err := persistence.NewSignups(store)
	if err != nil {
		log.Fatalf("failed to bind signups table: %v", err)
	}
	unavailable, err := persistence.NewUnavailable(store)
	if err != nil {
		log.Fatalf("failed to bind unavailable table: %v", err)
	}

	opts := []domain.Option{domain.WithLogger(log.Default())}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, log.Default())
		defer publisher.Close()
		opts = append(opts, domain.WithPublisher(publisher))
	}

	service := domain.NewService(activities, signups, unavailable, opts...)

	handler := api.NewHandler(service, auth.NewGuard(cfg.TeamCode), log.Default())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for the local static frontend
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+auth.HeaderTeamCode)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger with a generated request id
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-Id", requestID)
			log.Printf("%s %s %s", requestID, r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, logger(cors(observability.RequestMetrics(mux))))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("signup board listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
