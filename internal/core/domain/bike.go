package domain

import "time"

// PlaceholderImageURL is served instead of a stored image whenever the
// object store cannot take the upload. Bike creation never fails on storage.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1485965120184-e220f721d03e?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"

type Bike struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Description  string    `json:"description"`
	PricePerHour float64   `json:"price_per_hour" validate:"required,gt=0"`
	IsAvailable  bool      `json:"is_available"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BikeUpdate carries a partial update; nil fields stay untouched.
type BikeUpdate struct {
	Name         *string
	Description  *string
	PricePerHour *float64
	IsAvailable  *bool
}
