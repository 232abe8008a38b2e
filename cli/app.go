package cli

import (
	"io"
	"os"
	"strings"

	"floure-storefront/api"
	"floure-storefront/cache"
	"floure-storefront/cart"
	"floure-storefront/checkout"
	"floure-storefront/config"
	"floure-storefront/database"
	"floure-storefront/identity"
	"floure-storefront/logging"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	db       *gorm.DB
	redis    *redis.Client
	client   *api.Client
	store    *identity.Store
	engine   *cart.Engine
	checkout *checkout.Service
}

// newApp loads configuration and builds the services. One-shot commands
// pass quiet to keep routine warnings off the terminal.
func newApp(opts *RootOptions, quiet bool) (*app, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load environment", err)
	}
	cfg := config.Load()
	if opts.APIURL != "" {
		cfg.APIURL = strings.TrimRight(opts.APIURL, "/")
	}
	if opts.StateDSN != "" {
		cfg.StateDSN = opts.StateDSN
	}

	level := cfg.LogLevel
	switch {
	case opts.Verbose:
		level = "debug"
	case quiet && os.Getenv("LOG_LEVEL") == "":
		level = "error"
	}
	log, err := logging.NewLogger(level)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build logger", err)
	}
	if err := config.ValidateEnv(log); err != nil {
		return nil, WrapExitError(ExitCommandError, "environment validation failed", err)
	}

	a := &app{cfg: cfg, log: log}

	db, err := database.Connect(cfg.StateDSN)
	if err == nil {
		err = database.Migrate(db)
	}
	if err != nil {
		log.Warn("client state database unavailable, identifiers kept in memory", zap.Error(err))
		_ = database.Close(db)
		db = nil
	}
	a.db = db

	var catalogCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		catalogCache = cache.NewRedisCache(a.redis)
	}

	a.client = api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithCache(catalogCache, cfg.CacheTTL),
		api.WithBreaker(api.BreakerSettings{}),
		api.WithLogger(log),
	)
	a.store = identity.NewStore(db, log)
	a.engine = cart.NewEngine(a.client, a.store, log)
	a.checkout = checkout.NewService(a.engine, a.client, log)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.log.Warn("client state close failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

func formatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}
