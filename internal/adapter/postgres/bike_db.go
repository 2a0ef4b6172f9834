package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/webike/rentals/internal/core/domain"

	"github.com/lib/pq"
)

type BikeRepository struct {
	db *sql.DB
}

func NewBikeRepository(db *sql.DB) *BikeRepository {
	return &BikeRepository{db: db}
}

func (r *BikeRepository) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	query := `INSERT INTO bikes (name, description, price_per_hour, is_available, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		bike.Name,
		bike.Description,
		bike.PricePerHour,
		bike.IsAvailable,
		bike.ImageURL,
	).Scan(
		&bike.ID,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23502" {
			return nil, fmt.Errorf("required field is missing")
		}
		return nil, err
	}

	return bike, nil
}

func (r *BikeRepository) GetBikeByID(ctx context.Context, id int64) (*domain.Bike, error) {
	query := `SELECT id, name, description, price_per_hour, is_available, image_url, created_at, updated_at
		FROM bikes WHERE id = $1`

	bike := &domain.Bike{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&bike.ID,
		&bike.Name,
		&bike.Description,
		&bike.PricePerHour,
		&bike.IsAvailable,
		&bike.ImageURL,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrBikeNotFound
		}
		return nil, fmt.Errorf("failed to get bike: %w", err)
	}

	return bike, nil
}

func (r *BikeRepository) ListBikes(ctx context.Context, skip, limit int, availableOnly bool) ([]*domain.Bike, error) {
	query := `SELECT id, name, description, price_per_hour, is_available, image_url, created_at, updated_at
		FROM bikes`
	if availableOnly {
		query += ` WHERE is_available = TRUE`
	}
	query += ` ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bikes []*domain.Bike
	for rows.Next() {
		bike := &domain.Bike{}
		err := rows.Scan(
			&bike.ID,
			&bike.Name,
			&bike.Description,
			&bike.PricePerHour,
			&bike.IsAvailable,
			&bike.ImageURL,
			&bike.CreatedAt,
			&bike.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bikes = append(bikes, bike)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bikes, nil
}

func (r *BikeRepository) UpdateBike(ctx context.Context, id int64, update *domain.BikeUpdate) (*domain.Bike, error) {
	query := `UPDATE bikes
		SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price_per_hour = COALESCE($3, price_per_hour),
			is_available = COALESCE($4, is_available),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING id, name, description, price_per_hour, is_available, image_url, created_at, updated_at`

	bike := &domain.Bike{}
	err := r.db.QueryRowContext(ctx, query,
		update.Name,
		update.Description,
		update.PricePerHour,
		update.IsAvailable,
		id,
	).Scan(
		&bike.ID,
		&bike.Name,
		&bike.Description,
		&bike.PricePerHour,
		&bike.IsAvailable,
		&bike.ImageURL,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrBikeNotFound
		}
		return nil, fmt.Errorf("error updating bike: %w", err)
	}

	return bike, nil
}

func (r *BikeRepository) DeleteBike(ctx context.Context, id int64) error {
	query := `DELETE FROM bikes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrBikeNotFound
	}

	return nil
}
