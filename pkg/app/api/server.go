// Package api implements the portal API server process.
package api

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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/n1protocol/portal/internal/metrics"
	"github.com/n1protocol/portal/pkg/adminauth"
	apphttp "github.com/n1protocol/portal/pkg/app/http"
	"github.com/n1protocol/portal/pkg/config"
	"github.com/n1protocol/portal/pkg/intake"
	"github.com/n1protocol/portal/pkg/moderation"
	"github.com/n1protocol/portal/pkg/pgutil"
	"github.com/n1protocol/portal/pkg/portalstore"
	"github.com/n1protocol/portal/pkg/prices"
)

const defaultRequestTimeout = 60

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting portal API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() { _ = db.Close() }()

	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	store := portalstore.NewStore(db)

	oracle := prices.NewOracle(logger,
		prices.WithBaseURL(cfg.Prices.BaseURL),
		prices.WithTTL(cfg.Prices.CacheTTL),
		prices.WithHTTPClient(&http.Client{Timeout: cfg.Prices.RequestTimeout}),
	)

	guard := adminauth.NewGuard(cfg.Admin)

	intakeService := intake.NewLog(intake.NewService(store, oracle, logger), logger)
	moderationService := moderation.NewLog(moderation.NewService(store, logger), logger)

	router := s.setupRouter(guard, intakeService, moderationService, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) setupRouter(
	guard *adminauth.Guard,
	intakeService intake.Service,
	moderationService moderation.Service,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Second * defaultRequestTimeout))
	r.Use(observeDuration)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	adminauth.RegisterRoutes(r, guard, logger)
	intake.RegisterRoutes(r, intakeService, logger)
	moderation.RegisterRoutes(r, moderationService, guard, logger)

	return r
}

func observeDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
