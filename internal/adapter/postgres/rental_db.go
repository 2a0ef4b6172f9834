package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webike/rentals/internal/core/domain"
)

type RentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

func (r *RentalRepository) CreateRental(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	query := `INSERT INTO rentals (user_id, bike_id, start_time, end_time, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		rental.UserID,
		rental.BikeID,
		rental.StartTime,
		rental.EndTime,
		rental.TotalPrice,
		rental.Status,
		rental.CreatedAt,
	).Scan(&rental.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	return rental, nil
}

func (r *RentalRepository) GetRentalByID(ctx context.Context, id int64) (*domain.Rental, error) {
	query := `SELECT id, user_id, bike_id, start_time, end_time, actual_end_time, total_price, status, created_at
		FROM rentals WHERE id = $1`

	rental := &domain.Rental{}
	var actualEnd sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rental.ID,
		&rental.UserID,
		&rental.BikeID,
		&rental.StartTime,
		&rental.EndTime,
		&actualEnd,
		&rental.TotalPrice,
		&rental.Status,
		&rental.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRentalNotFound
		}
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}
	if actualEnd.Valid {
		t := actualEnd.Time
		rental.ActualEndTime = &t
	}

	return rental, nil
}

func (r *RentalRepository) ListRentals(ctx context.Context, skip, limit int) ([]*domain.Rental, error) {
	query := `SELECT id, user_id, bike_id, start_time, end_time, actual_end_time, total_price, status, created_at
		FROM rentals ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRentals(rows)
}

func (r *RentalRepository) ListRentalsByUserID(ctx context.Context, userID int64) ([]*domain.Rental, error) {
	query := `SELECT id, user_id, bike_id, start_time, end_time, actual_end_time, total_price, status, created_at
		FROM rentals WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRentals(rows)
}

// UpdateRentalState persists a terminal transition. The WHERE clause guards
// against reviving a rental that already left the active state.
func (r *RentalRepository) UpdateRentalState(ctx context.Context, rental *domain.Rental) (*domain.Rental, error) {
	query := `UPDATE rentals
		SET status = $1, actual_end_time = $2, total_price = $3
		WHERE id = $4 AND status = $5
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		rental.Status,
		rental.ActualEndTime,
		rental.TotalPrice,
		rental.ID,
		domain.RentalActive,
	).Scan(&rental.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRentalNotActive
		}
		return nil, fmt.Errorf("failed to update rental: %w", err)
	}

	return rental, nil
}

func scanRentals(rows *sql.Rows) ([]*domain.Rental, error) {
	var rentals []*domain.Rental
	for rows.Next() {
		rental := &domain.Rental{}
		var actualEnd sql.NullTime
		err := rows.Scan(
			&rental.ID,
			&rental.UserID,
			&rental.BikeID,
			&rental.StartTime,
			&rental.EndTime,
			&actualEnd,
			&rental.TotalPrice,
			&rental.Status,
			&rental.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if actualEnd.Valid {
			t := actualEnd.Time
			rental.ActualEndTime = &t
		}
		rentals = append(rentals, rental)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rentals, nil
}
