package ports

import (
	"context"
	"io"

	"github.com/webike/rentals/internal/core/domain"
)

type BikeRepository interface {
	CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error)
	GetBikeByID(ctx context.Context, id int64) (*domain.Bike, error)
	ListBikes(ctx context.Context, skip, limit int, availableOnly bool) ([]*domain.Bike, error)
	UpdateBike(ctx context.Context, id int64, update *domain.BikeUpdate) (*domain.Bike, error)
	DeleteBike(ctx context.Context, id int64) error
}

type BikeService interface {
	CreateBike(ctx context.Context, bike *domain.Bike, image io.Reader, filename, contentType string, size int64) (*domain.Bike, error)
	GetBikeByID(ctx context.Context, id int64) (*domain.Bike, error)
	ListBikes(ctx context.Context, skip, limit int, availableOnly bool) ([]*domain.Bike, error)
	UpdateBike(ctx context.Context, id int64, update *domain.BikeUpdate) (*domain.Bike, error)
	DeleteBike(ctx context.Context, id int64) error
}
