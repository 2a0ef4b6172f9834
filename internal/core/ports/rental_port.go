package ports

import (
	"context"
	"time"

	"github.com/webike/rentals/internal/core/domain"
)

type RentalRepository interface {
	CreateRental(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
	GetRentalByID(ctx context.Context, id int64) (*domain.Rental, error)
	ListRentals(ctx context.Context, skip, limit int) ([]*domain.Rental, error)
	ListRentalsByUserID(ctx context.Context, userID int64) ([]*domain.Rental, error)
	UpdateRentalState(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
}

// PriceBreakdown reports planned and, once a rental is terminated, actual
// time and cost figures.
type PriceBreakdown struct {
	RentalID     int64                `json:"rental_id"`
	BikeID       int64                `json:"bike_id"`
	BikeName     string               `json:"bike_name"`
	PricePerHour float64              `json:"price_per_hour"`
	Status       domain.RentalStatus  `json:"status"`
	Planned      PriceBreakdownWindow `json:"planned"`
	Actual       *PriceBreakdownWindow `json:"actual,omitempty"`
}

type PriceBreakdownWindow struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Hours     float64   `json:"hours"`
	Price     float64   `json:"price"`
}

type RentalService interface {
	CreateRental(ctx context.Context, caller domain.Identity, userID, bikeID int64, start, end time.Time) (*domain.Rental, error)
	ListRentals(ctx context.Context, caller domain.Identity, skip, limit int) ([]*domain.Rental, error)
	ListUserRentals(ctx context.Context, caller domain.Identity, userID int64) ([]*domain.Rental, error)
	CompleteRental(ctx context.Context, caller domain.Identity, rentalID int64) (*domain.Rental, error)
	CancelRental(ctx context.Context, caller domain.Identity, rentalID int64) (*domain.Rental, error)
	GetPriceBreakdown(ctx context.Context, caller domain.Identity, rentalID int64) (*PriceBreakdown, error)
}
