package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/verse/internal/catalog"
	"github.com/MrSnakeDoc/verse/internal/config"
	"github.com/MrSnakeDoc/verse/internal/dispatch"
	"github.com/MrSnakeDoc/verse/internal/httpserver"
	"github.com/MrSnakeDoc/verse/internal/httpserver/deps"
	"github.com/MrSnakeDoc/verse/internal/httpserver/mw"
	"github.com/MrSnakeDoc/verse/internal/logger"
	"github.com/MrSnakeDoc/verse/internal/metrics"
	"github.com/MrSnakeDoc/verse/internal/redis"
	"github.com/MrSnakeDoc/verse/internal/scheduler"
	"github.com/MrSnakeDoc/verse/internal/sources/messages"
	"github.com/MrSnakeDoc/verse/internal/store/exist"
	redisstore "github.com/MrSnakeDoc/verse/internal/store/redis"
	"github.com/MrSnakeDoc/verse/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.MessagesReloader
}

// NewStoreClient builds the eXist client from cfg. m may be nil.
func NewStoreClient(cfg *config.Config, m *metrics.Metrics) (*exist.Client, error) {
	return exist.New(exist.Options{
		BaseURL:      cfg.StoreURL,
		Timeout:      cfg.StoreTimeout,
		MaxBodyBytes: cfg.StoreMaxBody,
		UserAgent:    version.UserAgent(),
		Metrics:      m,
	})
}

// LoadCatalog returns a catalogue filled from cfg.MessagesFile once,
// or the built-in texts when no file is configured.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat := catalog.New()
	if cfg.MessagesFile == "" {
		return cat, nil
	}
	f, err := messages.NewLoader(cfg.MessagesFile).Load()
	if err != nil {
		return nil, err
	}
	cat.Replace(messages.ToTexts(f, cat.Texts()), cfg.MessagesFile)
	return cat, nil
}

// New wires the long-running service: store client, catalogue reloader,
// rate limiter and HTTP server.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	m := metrics.New()

	store, err := NewStoreClient(cfg, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create store client: %w", err)
	}
	loggerClient.Info("store client initialized",
		logger.String("url", store.BaseURL()),
		logger.Duration("timeout", cfg.StoreTimeout))

	cat := catalog.New()

	// Reloader only runs when a messages file is configured
	var (
		reloader      *scheduler.MessagesReloader
		reloadTrigger chan struct{}
	)
	if cfg.MessagesFile != "" {
		loggerClient.Info("messages file configured, initializing reloader",
			logger.String("file", cfg.MessagesFile))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewMessagesReloader(
			cfg.MessagesFile,
			cat,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("messages file not configured, using built-in texts")
	}

	// Shared limiter when Redis is configured, in-memory otherwise
	var (
		limiter     mw.Limiter
		limiterMode string
		redisClient *goredis.Client
	)
	if cfg.RedisEnabled() {
		redisClient, err = redis.New(ctx, redis.OptionsFromConfig(cfg), loggerClient)
		if err != nil {
			loggerClient.Warn("redis unavailable, falling back to in-memory rate limiting",
				logger.Error(err))
		}
	}
	if redisClient != nil {
		limiter = redisstore.NewFixedWindowLimiter(redisClient, cfg.RatePerMin, time.Minute, loggerClient, m)
		limiterMode = "redis"
	} else {
		limiter = mw.NewMemoryLimiter(mw.RateLimitConfig{
			Burst:             cfg.RateBurst,
			RefillPerIPPerMin: cfg.RatePerMin,
			MaxEntries:        100_000,
			Metrics:           m,
		})
		limiterMode = "memory"
	}
	loggerClient.Info("rate limiter initialized", logger.String("mode", limiterMode))

	// Dependencies passed to routes
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Dispatcher:    dispatch.New(store, cat, loggerClient, m),
		Store:         store,
		Catalog:       cat,
		Limiter:       limiter,
		LimiterMode:   limiterMode,
		Metrics:       m,
		ReloadTrigger: reloadTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		reloader:    reloader,
	}, nil
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting Verse v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Verse %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start messages reloader (loads the catalogue and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start messages reloader: %w", err)
		}
		a.logger.Info("messages reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("⏳ Shutting down gracefully...")

		if a.reloader != nil {
			a.reloader.Stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if a.redisClient != nil {
		if cerr := a.redisClient.Close(); cerr != nil {
			a.logger.Warnf("failed to close redis: %v", cerr)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	if err != nil {
		return err
	}
	a.logger.Info("✅ Verse stopped cleanly")
	return nil
}
