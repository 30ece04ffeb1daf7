// Package syncservice wires the famlog sync engine together and runs its
// HTTP control surface.
package syncservice

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/famlog/famlog/internal/api"
	"github.com/famlog/famlog/internal/auth"
	"github.com/famlog/famlog/internal/config"
	"github.com/famlog/famlog/internal/health"
	"github.com/famlog/famlog/internal/logger"
	"github.com/famlog/famlog/internal/remote"
	"github.com/famlog/famlog/internal/services"
	"github.com/famlog/famlog/internal/store"
	"github.com/famlog/famlog/internal/store/sqlite"
	syncengine "github.com/famlog/famlog/internal/sync"
)

// Run starts the sync service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("famlog-sync")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Str("sqlite_path", cfg.SQLitePath).
		Str("remote_base_url", cfg.RemoteBaseURL).
		Msg("Sync service starting")

	ctx, stop := newServerContext()
	defer stop()

	st, transport, err := initDependencies(cfg, log)
	if err != nil {
		return err
	}

	engine, err := buildEngine(ctx, cfg, st, transport, log)
	if err != nil {
		return err
	}

	svcHealth := startHealthCheckers(ctx, cfg, log, st, transport)
	engine.IsHealthy = svcHealth.IsHealthy

	server := newHTTPServer(ctx, cfg, api.NewRouter(engine))
	errCh := serveHTTP(server, log, cfg)

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

// initDependencies constructs the local store and the remote transport.
func initDependencies(cfg *config.Config, log zerolog.Logger) (store.Store, *remote.HTTPTransport, error) {
	st, err := sqlite.New(cfg.SQLitePath)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Local store unavailable")
		return nil, nil, err
	}
	transport := remote.NewHTTPTransport(cfg.RemoteBaseURL, cfg.RemoteAPIKey)
	return st, transport, nil
}

// buildEngine assembles the sync engine and the edit-path services over it.
func buildEngine(ctx context.Context, cfg *config.Config, st store.Store, transport remote.Transport, log zerolog.Logger) (api.Deps, error) {
	tombstones, err := syncengine.NewTombstoneTracker(ctx, st.Tombstones(), log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Tombstone tracker unavailable")
		return api.Deps{}, err
	}

	authorizer := &auth.StaticAuthorizer{
		APIKey:    cfg.RemoteAPIKey,
		AccountID: "local",
		DeviceID:  "local",
	}
	merger := syncengine.NewMerger(st, transport, tombstones, log)
	orch := syncengine.NewOrchestrator(merger, authorizer, cfg.SyncDebounce(), cfg.StatusClear(), log)
	reconciler := syncengine.NewReconciler(transport, log)

	return api.Deps{
		Profiles:   services.NewProfileService(st, tombstones, orch),
		Sections:   services.NewSectionService(st, tombstones, orch),
		Schedule:   services.NewScheduleService(st, tombstones, orch),
		Media:      services.NewMediaService(st, tombstones, orch),
		Orch:       orch,
		Reconciler: reconciler,
	}, nil
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, transport *remote.HTTPTransport) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	var checkers []health.HealthChecker
	if pinger, ok := st.(health.HealthPinger); ok {
		c := health.NewPingChecker("store", pinger, probeTimeout, log)
		go c.Start(ctx, interval)
		checkers = append(checkers, c)
	}
	remoteChecker := health.NewPingChecker("remote", transport, probeTimeout, log)
	go remoteChecker.Start(ctx, interval)
	checkers = append(checkers, remoteChecker)

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
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

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
