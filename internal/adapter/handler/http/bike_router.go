package http

import (
	"github.com/webike/rentals/internal/config"
)

// NewBikeRouter wires the inventory service. Bike routes are deliberately
// unauthenticated: the rental service drives availability flips through
// PUT /bikes/:id during its reconciliation step.
func NewBikeRouter(cfg *config.HTTP, bikeHandler *BikeHandler) (*Router, error) {
	router := newEngine(cfg)

	router.GET("/health", bikeHandler.Health)

	bikes := router.Group("/bikes")
	{
		bikes.POST("", bikeHandler.CreateBike)
		bikes.GET("", bikeHandler.ListBikes)
		bikes.GET("/:id", bikeHandler.GetBike)
		bikes.PUT("/:id", bikeHandler.UpdateBike)
		bikes.DELETE("/:id", bikeHandler.DeleteBike)
	}

	return &Router{router: router}, nil
}
