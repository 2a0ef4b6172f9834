package domain

import "time"

type RentalStatus string

const (
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCanceled  RentalStatus = "canceled"
)

// CancellationPenalty is the flat multiplier applied to the price of a
// canceled rental.
const CancellationPenalty = 0.5

// Rental is a booking. UserID and BikeID are weak references resolved by
// remote lookup, never joined locally. All stored timestamps are naive UTC
// (converted to UTC, arithmetic assumes a common zone-free epoch).
type Rental struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"user_id" validate:"required"`
	BikeID        int64        `json:"bike_id" validate:"required"`
	StartTime     time.Time    `json:"start_time"`
	EndTime       time.Time    `json:"end_time"`
	ActualEndTime *time.Time   `json:"actual_end_time,omitempty"`
	TotalPrice    float64      `json:"total_price"`
	Status        RentalStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// IsTerminal reports whether the rental reached a final state. Terminal
// rentals are never revived.
func (r *Rental) IsTerminal() bool {
	return r.Status == RentalCompleted || r.Status == RentalCanceled
}

// NaiveUTC canonicalizes a timestamp for storage and arithmetic: the instant
// is converted to UTC and any zone offset the caller supplied is discarded.
func NaiveUTC(t time.Time) time.Time {
	return t.UTC()
}

// HoursBetween returns the elapsed time between two canonicalized timestamps
// in fractional hours.
func HoursBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours()
}
