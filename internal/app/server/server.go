package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"hearth/internal/domain/bonus"
	"hearth/internal/domain/goals"
	"hearth/internal/domain/ledger"
	"hearth/internal/domain/reports"
	"hearth/internal/domain/work"
	"hearth/internal/platform/config"
	"hearth/internal/platform/crypto"
	"hearth/internal/platform/db"
	"hearth/internal/platform/jobs"
	"hearth/internal/platform/metrics"
	bonushandler "hearth/internal/transport/http/handlers/bonus"
	goalshandler "hearth/internal/transport/http/handlers/goals"
	ledgerhandler "hearth/internal/transport/http/handlers/ledger"
	reportshandler "hearth/internal/transport/http/handlers/reports"
	workhandler "hearth/internal/transport/http/handlers/work"
	"hearth/internal/transport/http/middleware"
)

func Run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return err
		}
	}

	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return err
	}

	collector := metrics.New()

	workSvc := work.NewService(work.NewStore(pool), cryptoSvc)
	ledgerSvc := ledger.NewService(ledger.NewStore(pool))
	goalsSvc := goals.NewService(goals.NewStore(pool))
	workSource := bonus.NewWorkSource(workSvc)
	bonusSvc := bonus.NewService(bonus.NewStore(pool), workSource, workSource)
	reportsSvc := reports.NewService(bonusSvc, ledgerSvc, cfg.StatementDir)

	jobSvc := jobs.New(pool, cfg, bonusSvc, collector)
	jobSvc.Start(ctx)

	router := buildRouter(cfg, pool, collector, ledgerSvc, goalsSvc, workSvc, bonusSvc, reportsSvc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildRouter(
	cfg config.Config,
	pool db.Pinger,
	collector *metrics.Collector,
	ledgerSvc *ledger.Service,
	goalsSvc *goals.Service,
	workSvc *work.Service,
	bonusSvc *bonus.Service,
	reportsSvc *reports.Service,
) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity)
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

		ledgerhandler.NewHandler(ledgerSvc).RegisterRoutes(r)
		goalshandler.NewHandler(goalsSvc).RegisterRoutes(r)
		workhandler.NewHandler(workSvc).RegisterRoutes(r)
		bonushandler.NewHandler(bonusSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc).RegisterRoutes(r)
	})

	return router
}
