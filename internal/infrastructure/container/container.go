// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"time"

	"github.com/alchemorsel/mealplanner/internal/application/planner"
	"github.com/alchemorsel/mealplanner/internal/domain/mealplan"
	"github.com/alchemorsel/mealplanner/internal/domain/recipe"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/cache"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/http/opsserver"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/monitoring"
	gormRepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/memory"
	redisRepo "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/security"
	"github.com/alchemorsel/mealplanner/internal/ports/inbound"
	"github.com/alchemorsel/mealplanner/internal/ports/outbound"
	"github.com/alchemorsel/mealplanner/pkg/healthcheck"
	"github.com/alchemorsel/mealplanner/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const metricsNamespace = "mealplanner"

// Module assembles the whole service around the config file at configPath
func Module(configPath string) fx.Option {
	return fx.Options(
		fx.Supply(fx.Annotated{Name: "configPath", Target: configPath}),
		ConfigModule,
		LoggerModule,
		MonitoringModule,
		DatabaseModule,
		CacheModule,
		RepositoryModule,
		ServiceModule,
		EventModule,
		HTTPModule,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(RegisterLifecycleHooks),
		fx.Invoke(WatchConfig),
	)
}

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	fx.Annotate(config.NewViper, fx.ParamTags(`name:"configPath"`)),
	config.Decode,
)

// LoggerModule provides logging with a runtime adjustable level
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (zap.AtomicLevel, *zap.Logger, error) {
		return logger.NewWithLevel(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			OutputPaths: cfg.App.LogOutputs,
		})
	},
)

// MonitoringModule provides the metrics registry, collectors and tracing
var MonitoringModule = fx.Provide(
	func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg
	},
	func(reg *prometheus.Registry, log *zap.Logger) *monitoring.MetricsCollector {
		return monitoring.NewMetricsCollector(reg, metricsNamespace, log)
	},
	func(reg *prometheus.Registry) *healthcheck.HealthMetrics {
		return healthcheck.NewHealthMetrics(reg, metricsNamespace)
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			Exporter:       cfg.Monitoring.TracingExporter,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(tp.Shutdown))
		return tp, nil
	},
)

// DatabaseModule provides the database connection
var DatabaseModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) (*Database, error) {
		db, err := OpenDatabase(context.Background(), cfg.Database, cfg.App.LogLevel, log)
		if err != nil {
			return nil, err
		}
		metrics.RegisterDBStats(db.SQL, "primary")
		lc.Append(fx.StopHook(db.Close))
		return db, nil
	},
)

// CacheModule provides Redis when enabled and the in-memory cache otherwise
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, healthMetrics *healthcheck.HealthMetrics, log *zap.Logger) (*cache.RedisClient, error) {
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		breaker := healthcheck.DefaultCircuitBreakerConfig()
		breaker.OnStateChange = healthMetrics.OnStateChange
		client, err := cache.NewRedisClient(context.Background(), cfg.Redis, breaker, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(client.Close))
		return client, nil
	},
	func(lc fx.Lifecycle, client *cache.RedisClient, log *zap.Logger) outbound.CacheRepository {
		if client != nil {
			return redisRepo.NewCacheRepository(client, metricsNamespace+":", log)
		}
		log.Info("Redis disabled, using in-memory cache")
		mem := memory.NewCacheRepository(time.Minute)
		lc.Append(fx.StopHook(mem.Close))
		return mem
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	func(db *Database) *gormRepo.UserRepository {
		return gormRepo.NewUserRepository(db.DB)
	},
	func(db *Database) outbound.PlanRepository {
		return gormRepo.NewPlanRepository(db.DB)
	},
	func(db *Database, store outbound.CacheRepository, cfg *config.Config, metrics *monitoring.MetricsCollector, log *zap.Logger) *cache.CatalogCache {
		return cache.NewCatalogCache(gormRepo.NewCatalogRepository(db.DB), store, cfg.Cache.CatalogTTL, metrics, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(log *zap.Logger) *security.ValidationService {
		return security.NewValidationService(log)
	},
	func(
		cfg *config.Config,
		users *gormRepo.UserRepository,
		catalog *cache.CatalogCache,
		plans outbound.PlanRepository,
		store outbound.CacheRepository,
		events *EventDispatcher,
		metrics *monitoring.MetricsCollector,
		validator *security.ValidationService,
		_ *monitoring.TracingProvider,
		log *zap.Logger,
	) *planner.PlanService {
		return planner.NewPlanService(planner.Dependencies{
			Profiles:   users,
			Exclusions: users,
			Catalog:    catalog,
			Plans:      plans,
			Cache:      store,
			Events:     events,
			Metrics:    metrics,
			Validator:  validator,
		}, PlannerDefaults(cfg), log)
	},
	func(s *planner.PlanService) inbound.PlanService { return s },
)

// EventModule provides the dispatcher with its default handlers
var EventModule = fx.Provide(
	func(metrics *monitoring.MetricsCollector, log *zap.Logger) *EventDispatcher {
		d := NewEventDispatcher(log)
		d.Register(mealplan.PlanGeneratedEvent{}.EventName(), PlanGeneratedHandler(metrics, log))
		return d
	},
)

// HTTPModule provides the API and ops servers
var HTTPModule = fx.Provide(
	func(cfg *config.Config, plans inbound.PlanService, metrics *monitoring.MetricsCollector, log *zap.Logger) *apiserver.Server {
		return apiserver.NewServer(cfg, plans, metrics, log)
	},
	NewHealthCheck,
	func(cfg *config.Config, hc *healthcheck.HealthCheck, reg *prometheus.Registry, log *zap.Logger) *opsserver.Server {
		return opsserver.NewServer(cfg.Monitoring.MetricsPort, hc, reg, cfg.App.Debug, log)
	},
)

// NewHealthCheck registers the database, redis and catalog checkers
func NewHealthCheck(cfg *config.Config, db *Database, client *cache.RedisClient, catalog *cache.CatalogCache, metrics *healthcheck.HealthMetrics, log *zap.Logger) *healthcheck.HealthCheck {
	hc := healthcheck.New(cfg.App.Version, log.Named("health"))
	hc.SetMetrics(metrics)

	hc.Register("database", healthcheck.NewDatabaseChecker(db.SQL))
	if client != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(client.Client()))
	}
	hc.Register("catalog", healthcheck.NewCustomChecker("catalog", CatalogCheck(catalog)))
	return hc
}

// CatalogCheck reports unhealthy when the catalog cannot be read and degraded
// when a meal slot has no active recipe
func CatalogCheck(catalog outbound.CatalogRepository) func(ctx context.Context) (healthcheck.Status, string, interface{}) {
	return func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		recipes, err := catalog.ActiveRecipes(ctx)
		if err != nil {
			return healthcheck.StatusUnhealthy, err.Error(), nil
		}

		counts := make(map[recipe.MealType]int, len(recipe.MealTypes))
		for _, mt := range recipe.MealTypes {
			counts[mt] = 0
		}
		for _, r := range recipes {
			counts[r.MealType()]++
		}
		for _, mt := range recipe.MealTypes {
			if counts[mt] == 0 {
				return healthcheck.StatusDegraded, "no active recipe for slot " + string(mt), counts
			}
		}
		return healthcheck.StatusHealthy, "", counts
	}
}

// PlannerDefaults maps the planner and cache sections onto service defaults
func PlannerDefaults(cfg *config.Config) planner.Defaults {
	return planner.Defaults{
		Weeks:           cfg.Planner.DefaultWeeks,
		MaxWeeks:        cfg.Planner.MaxWeeks,
		AllowRepeatDays: cfg.Planner.DefaultAllowRepeatDays,
		PreferSimple:    cfg.Planner.DefaultPreferSimple,
		RandomSeed:      cfg.Planner.RandomSeed,
		PlanCacheTTL:    cfg.Cache.PlanTTL,
	}
}

// RegisterLifecycleHooks starts and stops the servers
func RegisterLifecycleHooks(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, log *zap.Logger, api *apiserver.Server, ops *opsserver.Server) {
	serve := func(name string, start func() error) {
		go func() {
			if err := start(); err != nil {
				log.Error("Server stopped unexpectedly", zap.String("server", name), zap.Error(err))
				_ = shutdowner.Shutdown(fx.ExitCode(1))
			}
		}()
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting meal planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.Bool("redis", cfg.Redis.Enabled),
			)
			serve("api", api.Start)
			if cfg.Monitoring.EnableMetrics {
				serve("ops", ops.Start)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down meal planner")

			if err := api.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown API server", zap.Error(err))
			}
			if cfg.Monitoring.EnableMetrics {
				if err := ops.Shutdown(ctx); err != nil {
					log.Error("Failed to shutdown ops server", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}

// WatchConfig applies log level, planner defaults and cache lifetimes from
// config file edits without a restart
func WatchConfig(v *viper.Viper, level zap.AtomicLevel, plans *planner.PlanService, catalog *cache.CatalogCache, log *zap.Logger) {
	config.Watch(v, func(cfg *config.Config) {
		level.SetLevel(logger.ParseLevel(cfg.App.LogLevel))
		plans.UpdateDefaults(PlannerDefaults(cfg))
		catalog.SetTTL(cfg.Cache.CatalogTTL)
		log.Info("Configuration reloaded", zap.String("log_level", cfg.App.LogLevel))
	}, func(err error) {
		log.Warn("Ignoring invalid configuration change", zap.Error(err))
	})
}
