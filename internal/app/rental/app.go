package rental

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webike/rentals/internal/adapter/handler/http"
	"github.com/webike/rentals/internal/adapter/logger"
	"github.com/webike/rentals/internal/adapter/postgres"
	"github.com/webike/rentals/internal/adapter/prometheus"
	"github.com/webike/rentals/internal/adapter/remote"
	"github.com/webike/rentals/internal/config"
	"github.com/webike/rentals/internal/core/ports"
	"github.com/webike/rentals/internal/core/services"

	"github.com/go-playground/validator/v10"
)

type App struct {
	Config     *config.Container
	Logger     ports.LoggerPort
	DB         *sql.DB
	HTTPRouter *http.Router
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Connect and migrate DB
	db, err := postgres.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(db, "./internal/adapter/postgres/migrations/rental"); err != nil {
		db.Close()
		return nil, err
	}

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter("rental")

	// Remote service clients
	identityClient := remote.NewAuthClient(cfg.AuthService, loggerAdapter)
	bikeClient := remote.NewBikeClient(cfg.BikeService, loggerAdapter)

	// Repositories
	rentalRepo := postgres.NewRentalRepository(db)

	// Services
	rentalService := services.NewRentalService(rentalRepo, bikeClient, loggerAdapter, validate)

	// HTTP handlers
	rentalHandler := http.NewRentalHandler(rentalService, bikeClient, loggerAdapter, metrics, db)

	// Init HTTP router
	router, err := http.NewRentalRouter(cfg.HTTP, identityClient, loggerAdapter, rentalHandler)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:     cfg,
		Logger:     loggerAdapter,
		DB:         db,
		HTTPRouter: router,
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

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}
