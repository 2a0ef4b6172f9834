package bike

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webike/rentals/internal/adapter/handler/http"
	"github.com/webike/rentals/internal/adapter/logger"
	"github.com/webike/rentals/internal/adapter/postgres"
	"github.com/webike/rentals/internal/adapter/prometheus"
	"github.com/webike/rentals/internal/adapter/redis"
	"github.com/webike/rentals/internal/adapter/storage"
	"github.com/webike/rentals/internal/config"
	"github.com/webike/rentals/internal/core/ports"
	"github.com/webike/rentals/internal/core/services"

	"github.com/go-playground/validator/v10"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config       *config.Container
	Logger       ports.LoggerPort
	DB           *sql.DB
	RedisClient  *redisClient.Client
	RedisAdapter ports.CachePort
	HTTPRouter   *http.Router
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Set redis
	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	cacheAdapter := redis.NewRedisAdapter(redisConn)

	// Connect and migrate DB
	db, err := postgres.Connect(cfg.DB)
	if err != nil {
		redisConn.Close()
		return nil, err
	}
	if err := postgres.Migrate(db, "./internal/adapter/postgres/migrations/bike"); err != nil {
		db.Close()
		redisConn.Close()
		return nil, err
	}

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter("bike")

	// Object storage
	store := storage.NewMinioStorage(cfg.Storage, loggerAdapter)
	if store.Available() {
		if err := store.EnsureBucket(ctx); err != nil {
			loggerAdapter.Warn("Bucket check failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Repositories
	bikeRepo := postgres.NewBikeRepository(db)

	// Services
	bikeService := services.NewBikeService(bikeRepo, store, loggerAdapter, validate, cacheAdapter)

	// HTTP handlers
	bikeHandler := http.NewBikeHandler(bikeService, store, loggerAdapter, metrics, db)

	// Init HTTP router
	router, err := http.NewBikeRouter(cfg.HTTP, bikeHandler)
	if err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       loggerAdapter,
		DB:           db,
		RedisClient:  redisConn,
		RedisAdapter: cacheAdapter,
		HTTPRouter:   router,
	}, nil
}

func (a *App) Run() error {
	listenAddr := fmt.Sprintf("%s:%s", a.Config.HTTP.URL, a.Config.HTTP.Port)
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := a.RedisClient.Close(); err != nil {
		a.Logger.Error("Redis close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}
