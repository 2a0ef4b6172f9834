package http

import (
	"github.com/webike/rentals/internal/config"
	"github.com/webike/rentals/internal/core/ports"
)

// NewRentalRouter wires the rental service. Every rental route sits behind
// the remote auth middleware; there is no local token verification here.
func NewRentalRouter(
	cfg *config.HTTP,
	identity ports.IdentityClient,
	logger ports.LoggerPort,
	rentalHandler *RentalHandler,
) (*Router, error) {
	router := newEngine(cfg)

	router.GET("/health", rentalHandler.Health)

	rentals := router.Group("/rentals")
	rentals.Use(RemoteAuthMiddleware(identity, logger))
	{
		rentals.POST("", rentalHandler.CreateRental)
		rentals.GET("", rentalHandler.ListRentals)
		rentals.GET("/user/:user_id", rentalHandler.ListUserRentals)
		rentals.PUT("/:id/complete", rentalHandler.CompleteRental)
		rentals.PUT("/:id/cancel", rentalHandler.CancelRental)
		rentals.GET("/:id/price-breakdown", rentalHandler.PriceBreakdown)
	}

	return &Router{router: router}, nil
}
