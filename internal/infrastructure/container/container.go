// Package container wires the application together with Uber FX
package container

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alchemorsel/recipebox/internal/application/catalog"
	"github.com/alchemorsel/recipebox/internal/application/collection"
	"github.com/alchemorsel/recipebox/internal/application/matching"
	"github.com/alchemorsel/recipebox/internal/application/pantry"
	"github.com/alchemorsel/recipebox/internal/application/parsing"
	"github.com/alchemorsel/recipebox/internal/application/recipe"
	"github.com/alchemorsel/recipebox/internal/application/user"
	"github.com/alchemorsel/recipebox/internal/infrastructure/ai"
	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/recipebox/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence"
	gormRepo "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/alchemorsel/recipebox/pkg/healthcheck"
	"github.com/alchemorsel/recipebox/pkg/logger"
)

// memorySweepInterval is how often the in-process cache drops expired keys
const memorySweepInterval = time.Minute

// ConfigPath is the config file to load; empty searches the default paths
type ConfigPath string

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	MonitoringModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// New builds the application for the given config file
func New(path string) *fx.App {
	return fx.New(
		fx.Supply(ConfigPath(path)),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Named("fx")}
			l.UseLogLevel(zap.DebugLevel)
			return l
		}),
		Module,
	)
}

// Reloader fans config file changes out to subscribers
type Reloader struct {
	mu        sync.Mutex
	listeners []func(*config.Config)
	logger    *zap.Logger
}

// Subscribe registers fn to run with every successfully reloaded config
func (r *Reloader) Subscribe(fn func(*config.Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Reloader) setLogger(log *zap.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = log.Named("config")
}

func (r *Reloader) apply(cfg *config.Config) {
	r.mu.Lock()
	listeners := append([]func(*config.Config){}, r.listeners...)
	log := r.logger
	r.mu.Unlock()

	if log != nil {
		log.Info("Configuration reloaded")
	}
	for _, fn := range listeners {
		fn(cfg)
	}
}

func (r *Reloader) fail(err error) {
	r.mu.Lock()
	log := r.logger
	r.mu.Unlock()
	if log != nil {
		log.Warn("Ignoring invalid configuration change", zap.Error(err))
	}
}

// ConfigModule provides configuration and its reload fan-out
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, *Reloader, error) {
		reloader := &Reloader{}
		cfg, err := config.LoadWatched(string(path), reloader.apply, reloader.fail)
		if err != nil {
			return nil, nil, err
		}
		return cfg, reloader, nil
	},
)

// LoggerModule provides logging. The level follows app.log_level on reload.
var LoggerModule = fx.Options(
	fx.Provide(
		func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
			return logger.New(logger.Config{
				Level:       cfg.App.LogLevel,
				Format:      cfg.App.LogFormat,
				Development: !cfg.IsProduction(),
			})
		},
	),
	fx.Invoke(func(reloader *Reloader, level zap.AtomicLevel, log *zap.Logger) {
		reloader.setLogger(log)
		reloader.Subscribe(func(cfg *config.Config) {
			level.SetLevel(logger.ParseLevel(cfg.App.LogLevel))
		})
	}),
)

// DatabaseModule provides the GORM connection
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		db, err := persistence.Open(context.Background(), cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(func() error {
			return persistence.Close(db)
		}))
		return db, nil
	},
)

// CacheModule provides the shared cache: Redis when configured, otherwise an
// in-process store. The *redis.Client is nil without Redis.
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, *goredis.Client, error) {
		if cfg.Redis.Host == "" {
			log.Info("Using in-memory cache")
			cache := memory.NewCacheRepository(memorySweepInterval)
			lc.Append(fx.StopHook(cache.Close))
			return cache, nil, nil
		}

		client, err := redis.NewClient(context.Background(), cfg)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.StopHook(client.Close))
		return redis.NewCacheRepository(client, log), client, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewRecipeRepository,
	gormRepo.NewIngredientRepository,
	gormRepo.NewCollectionRepository,
	gormRepo.NewPantryRepository,
	gormRepo.NewUserRepository,
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *monitoring.Metrics {
		return monitoring.NewMetrics(cfg.App.Name, log)
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *monitoring.TracingProvider {
		tp := monitoring.NewTracingProvider(cfg, log)
		lc.Append(fx.StopHook(tp.Shutdown))
		return tp
	},
)

// ServiceModule provides matching state and application services
var ServiceModule = fx.Options(
	fx.Provide(
		func(cfg *config.Config) *matching.Settings {
			return matching.NewSettings(thresholds(cfg))
		},
		func(
			ingredients outbound.IngredientRepository,
			shared outbound.CacheRepository,
			cfg *config.Config,
			metrics *monitoring.Metrics,
			log *zap.Logger,
		) *matching.CatalogCache {
			return matching.NewCatalogCache(ingredients, shared, matching.CacheConfig{
				TTL:      cfg.Matching.CatalogTTL,
				Observer: metrics,
			}, log)
		},
		// nil disables AI parsing
		func(cfg *config.Config, metrics *monitoring.Metrics, log *zap.Logger) *parsing.AIParser {
			if cfg.AI.BaseURL == "" {
				log.Info("AI parsing disabled")
				return nil
			}
			return parsing.NewAIParser(ai.NewClient(cfg.AI, log), metrics, log)
		},
		func(cfg *config.Config, log *zap.Logger) *security.TokenService {
			return security.NewTokenService(cfg.Auth, log)
		},

		func(
			recipes outbound.RecipeRepository,
			ingredients outbound.IngredientRepository,
			cache *matching.CatalogCache,
			settings *matching.Settings,
			aiParser *parsing.AIParser,
			metrics *monitoring.Metrics,
			log *zap.Logger,
		) inbound.RecipeService {
			return recipe.NewService(recipes, ingredients, cache, settings, aiParser, metrics, log)
		},
		fx.Annotate(
			catalog.NewService,
			fx.As(new(inbound.CatalogService)),
		),
		fx.Annotate(
			collection.NewService,
			fx.As(new(inbound.CollectionService)),
		),
		fx.Annotate(
			pantry.NewService,
			fx.As(new(inbound.PantryService)),
		),
		func(users outbound.UserRepository, tokens *security.TokenService, cfg *config.Config, log *zap.Logger) inbound.UserService {
			return user.NewService(users, tokens, cfg.Auth.BCryptCost, log)
		},
	),
	fx.Invoke(func(reloader *Reloader, settings *matching.Settings) {
		reloader.Subscribe(func(cfg *config.Config) {
			settings.Set(thresholds(cfg))
		})
	}),
)

func thresholds(cfg *config.Config) matching.Thresholds {
	return matching.Thresholds{
		Suggest:    cfg.Matching.SuggestThreshold,
		Duplicate:  cfg.Matching.DuplicateThreshold,
		AutoAssign: cfg.Matching.AutoAssignThreshold,
	}
}

type serverParams struct {
	fx.In

	Config      *config.Config
	Recipes     inbound.RecipeService
	Catalog     inbound.CatalogService
	Collections inbound.CollectionService
	Pantry      inbound.PantryService
	Users       inbound.UserService
	Tokens      *security.TokenService
	Metrics     *monitoring.Metrics
	DB          *gorm.DB
	Redis       *goredis.Client
	Logger      *zap.Logger
}

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	func(p serverParams) *apiserver.Server {
		health := healthcheck.New(p.Config.App.Version, p.Logger)
		health.Register("database", healthcheck.NewDatabaseChecker(p.DB))
		if p.Redis != nil {
			health.Register("redis", healthcheck.NewRedisChecker(p.Redis))
		}

		opts := apiserver.Options{Health: health}
		if p.Config.Monitoring.EnableMetrics {
			opts.Metrics = p.Metrics
		}

		return apiserver.NewServer(p.Config, apiserver.Services{
			Recipes:     p.Recipes,
			Catalog:     p.Catalog,
			Collections: p.Collections,
			Pantry:      p.Pantry,
			Users:       p.Users,
		}, p.Tokens, opts, p.Logger)
	},
)

// LifecycleModule starts and stops the HTTP server
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks runs the server for the lifetime of the app. A
// listener failure shuts the whole app down.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.Server,
	_ *monitoring.TracingProvider,
) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting recipebox",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)
			go func() {
				if err := server.Start(runCtx); err != nil {
					log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			defer cancel()
			log.Info("Shutting down recipebox")

			shutdownCtx, stop := context.WithTimeout(ctx, server.ShutdownTimeout())
			defer stop()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
