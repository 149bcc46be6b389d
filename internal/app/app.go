package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/horizon/internal/bookmarks"
	"github.com/MrSnakeDoc/horizon/internal/config"
	"github.com/MrSnakeDoc/horizon/internal/httpserver"
	"github.com/MrSnakeDoc/horizon/internal/httpserver/deps"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/scheduler"
	"github.com/MrSnakeDoc/horizon/internal/store"
	"github.com/MrSnakeDoc/horizon/internal/utils"
	"github.com/MrSnakeDoc/horizon/internal/version"
)

type App struct {
	cfg              *config.Config
	logger           logger.Logger
	server           *httpserver.Server
	store            store.Store
	memIndex         *index.MemoryIndex
	refresher        *scheduler.ContestRefresher
	solutionReloader *scheduler.SolutionReloader
	gc               *scheduler.GarbageCollector
}

// New opens the store, restores persisted snapshots and wires the
// schedulers and the HTTP server. Nothing runs until Run.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	agg, err := BuildAggregator(cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	st, err := OpenStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}
	loggerClient.Info("store initialized", logger.String("backend", st.Backend()))

	memIndex := index.NewMemoryIndex()

	// Serve the last known contests until the first refresh lands
	syncer := scheduler.NewSnapshotSyncer(st, memIndex, loggerClient)
	if n, err := syncer.Sync(ctx); err != nil {
		loggerClient.Warn("failed to restore snapshots on startup, waiting for first refresh",
			logger.Error(err))
	} else {
		loggerClient.Info("snapshots restored", logger.Int("platforms", n))
	}

	refreshTrigger := make(chan struct{}, 1)
	solutionTrigger := make(chan struct{}, 1)

	refresher := scheduler.NewContestRefresher(
		agg,
		st,
		memIndex,
		loggerClient,
		cfg.RefreshInterval,
		refreshTrigger,
	)

	if cfg.SolutionsFile == "" {
		loggerClient.Info("solutions file not configured, using stored solutions only")
	}
	solutionReloader := scheduler.NewSolutionReloader(
		cfg.SolutionsFile,
		st,
		memIndex,
		loggerClient,
		cfg.SolutionsReload,
		solutionTrigger,
	)

	svc := bookmarks.NewService(st, memIndex, loggerClient)
	gc := scheduler.NewGarbageCollector(
		svc,
		memIndex,
		loggerClient,
		cfg.GCInterval,
		cfg.OrphanTTL,
	)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		Platforms:       agg.Platforms(),
		Index:           memIndex,
		Bookmarks:       svc,
		Store:           st,
		Validate:        validator.New(validator.WithRequiredStructEnabled()),
		RefreshTrigger:  refreshTrigger,
		SolutionTrigger: solutionTrigger,
	}

	return &App{
		cfg:              cfg,
		logger:           loggerClient,
		server:           httpserver.New(cfg, loggerClient, d),
		store:            st,
		memIndex:         memIndex,
		refresher:        refresher,
		solutionReloader: solutionReloader,
		gc:               gc,
	}, nil
}

// Run starts the schedulers and the HTTP server, and blocks until ctx is
// cancelled, SIGINT/SIGTERM arrives or the server fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting Horizon %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer utils.CloseLogged(a.store, a.logger, "store")

	// Solutions first so the first refresh already shows them
	if err := a.solutionReloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start solution reloader: %w", err)
	}
	a.logger.Info("solution reloader started",
		logger.Duration("interval", a.cfg.SolutionsReload))

	if err := a.refresher.Start(ctx); err != nil {
		a.solutionReloader.Stop()
		return fmt.Errorf("failed to start contest refresher: %w", err)
	}
	a.logger.Info("contest refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

	if err := a.gc.Start(ctx); err != nil {
		a.refresher.Stop()
		a.solutionReloader.Stop()
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.Duration("orphan_ttl", a.cfg.OrphanTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	a.refresher.Stop()
	a.solutionReloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ Horizon stopped cleanly")
	return nil
}
