package adminservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tourkita/admin-backend/internal/api"
	"github.com/tourkita/admin-backend/internal/api/recovery"
	"github.com/tourkita/admin-backend/internal/auth"
	blobpkg "github.com/tourkita/admin-backend/internal/blob"
	"github.com/tourkita/admin-backend/internal/config"
	"github.com/tourkita/admin-backend/internal/factory"
	"github.com/tourkita/admin-backend/internal/health"
	"github.com/tourkita/admin-backend/internal/logger"
	"github.com/tourkita/admin-backend/internal/services"
	"github.com/tourkita/admin-backend/internal/store"
)

// Run starts the admin service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("admin-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("blob_driver", cfg.BlobDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Admin service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	// Initialize dependencies (document store, blob store)
	st, blobs, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Build router
	router := buildRouter(st, blobs, cfg, log)

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st, blobs)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	// HTTP server and serve
	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs required components and enforces fail-fast on missing deps.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, blobpkg.Store, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, err
	}

	blobs, err := factory.NewBlobStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Blob store adapter unavailable")
		return nil, nil, err
	}
	return st, blobs, nil
}

// newAuthorizer picks the configured API-key authorizer, falling back to the
// local development key when none is configured outside production.
func newAuthorizer(cfg *config.Config, log zerolog.Logger) auth.Authorizer {
	if cfg.APIKey != "" {
		return auth.NewStaticAuthorizer(cfg.APIKey)
	}
	if cfg.IsProduction() {
		log.Warn().Msg("no API key configured in production; rejecting all mutations")
		return auth.NewStaticAuthorizer("")
	}
	log.Warn().Msg("no API key configured; using local development key")
	return auth.NewMockAuthorizer()
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(st store.Store, blobs blobpkg.Store, cfg *config.Config, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)
	root.Use(api.RequireAuth(newAuthorizer(cfg, log)))

	// AR asset lifecycle
	arSvc := services.NewARAssetService(st, blobs, log)
	targets := api.NewARTargetHandler(arSvc)
	root.HandleFunc("/api/ar-targets", targets.ListTargets).Methods("GET")
	root.HandleFunc("/api/ar-targets", targets.SaveTarget).Methods("POST")
	root.HandleFunc("/api/ar-targets/{targetId}", targets.GetTarget).Methods("GET")
	root.HandleFunc("/api/ar-targets/{targetId}", targets.DeleteTarget).Methods("DELETE")

	// Locations
	locSvc := services.NewLocationService(st, blobs, arSvc, log)
	locations := api.NewLocationHandler(locSvc)
	root.HandleFunc("/api/locations", locations.CreateLocation).Methods("POST")
	root.HandleFunc("/api/locations", locations.ListLocations).Methods("GET")
	root.HandleFunc("/api/locations/{locationId}", locations.GetLocation).Methods("GET")
	root.HandleFunc("/api/locations/{locationId}", locations.UpdateLocation).Methods("PATCH")
	root.HandleFunc("/api/locations/{locationId}", locations.DeleteLocation).Methods("DELETE")

	// Events
	eventSvc := services.NewEventService(st)
	events := api.NewEventHandler(eventSvc)
	root.HandleFunc("/api/events", events.CreateEvent).Methods("POST")
	root.HandleFunc("/api/events", events.ListEvents).Methods("GET")
	root.HandleFunc("/api/events/{eventId}", events.GetEvent).Methods("GET")
	root.HandleFunc("/api/events/{eventId}", events.UpdateEvent).Methods("PUT")
	root.HandleFunc("/api/events/{eventId}", events.DeleteEvent).Methods("DELETE")

	// Users and the archive lifecycle
	userSvc := services.NewUserService(st, auth.NewLoggingIdentityProvider(log), log)
	users := api.NewUserHandler(userSvc, time.Duration(cfg.ArchiveRetentionDays)*24*time.Hour)
	root.HandleFunc("/api/users", users.CreateUser).Methods("POST")
	root.HandleFunc("/api/users", users.ListUsers).Methods("GET")
	root.HandleFunc("/api/users/{userId}", users.GetUser).Methods("GET")
	root.HandleFunc("/api/users/{userId}/archive", users.ArchiveUser).Methods("POST")
	root.HandleFunc("/api/archived-users", users.ListArchivedUsers).Methods("GET")
	root.HandleFunc("/api/archived-users/sweep", users.SweepArchivedUsers).Methods("POST")

	// Feedback
	feedbackSvc := services.NewFeedbackService(st)
	feedback := api.NewFeedbackHandler(feedbackSvc)
	root.HandleFunc("/api/feedback", feedback.CreateFeedback).Methods("POST")
	root.HandleFunc("/api/feedback", feedback.ListFeedback).Methods("GET")
	root.HandleFunc("/api/feedback/stats", feedback.FeedbackStats).Methods("GET")

	// Overlays
	overlaySvc := services.NewOverlayService(st)
	overlays := api.NewOverlayHandler(overlaySvc)
	root.HandleFunc("/api/overlays", overlays.CreateOverlay).Methods("POST")
	root.HandleFunc("/api/overlays", overlays.ListOverlays).Methods("GET")
	root.HandleFunc("/api/overlays/{overlayId}", overlays.GetOverlay).Methods("GET")
	root.HandleFunc("/api/overlays/{overlayId}", overlays.DeleteOverlay).Methods("DELETE")

	// Health
	healthHandler := api.NewHealthHandler()
	root.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	return root
}

// startHealthCheckers starts component checkers and service-level aggregator; binds health.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, blobs blobpkg.Store) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	blobChecker := blobpkg.NewHealthChecker(blobs, log, probeTimeout)
	go blobChecker.Start(ctx, interval)
	checkers = append(checkers, blobChecker)

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Health checkers start as unhealthy and need time for their first probe.
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
