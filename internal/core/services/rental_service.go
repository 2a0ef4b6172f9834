package services

import (
	"context"
	"math"
	"time"

	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

// RentalService owns the booking lifecycle. Every write depends on the
// remote bike service: a live availability check up front, and a best-effort
// availability sync after the rental row is committed. The sync is attempted
// at most once; its failure leaves an accepted inconsistency window between
// "rental exists" and "bike marked unavailable".
type RentalService struct {
	rentalRepo ports.RentalRepository
	inventory  ports.InventoryClient
	logger     ports.LoggerPort
	validate   *validator.Validate
}

func NewRentalService(
	rentalRepo ports.RentalRepository,
	inventory ports.InventoryClient,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *RentalService {
	return &RentalService{
		rentalRepo: rentalRepo,
		inventory:  inventory,
		logger:     logger,
		validate:   validate,
	}
}

func (s *RentalService) CreateRental(ctx context.Context, caller domain.Identity, userID, bikeID int64, start, end time.Time) (*domain.Rental, error) {
	if caller.UserID != userID {
		s.logger.Warn("Rental creation for another user rejected", map[string]interface{}{
			"caller_id": caller.UserID,
			"user_id":   userID,
		})
		return nil, domain.ErrForbidden
	}

	bike, err := s.inventory.GetBike(ctx, bikeID)
	if err != nil {
		s.logger.Error("Bike lookup failed during rental creation", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, err
	}
	if !bike.IsAvailable {
		return nil, domain.ErrBikeUnavailable
	}

	start = domain.NaiveUTC(start)
	end = domain.NaiveUTC(end)
	if !start.Before(end) {
		return nil, domain.ErrInvalidTimeWindow
	}

	// A start time in the past is silently moved to now, not rejected.
	now := time.Now().UTC()
	if start.Before(now) {
		start = now
	}
	if !start.Before(end) {
		return nil, domain.ErrWindowInPast
	}

	totalPrice := domain.HoursBetween(start, end) * bike.PricePerHour

	rental := &domain.Rental{
		UserID:     userID,
		BikeID:     bikeID,
		StartTime:  start,
		EndTime:    end,
		TotalPrice: totalPrice,
		Status:     domain.RentalActive,
		CreatedAt:  now,
	}
	if err := s.validate.Struct(rental); err != nil {
		return nil, err
	}

	created, err := s.rentalRepo.CreateRental(ctx, rental)
	if err != nil {
		s.logger.Error("Failed to persist rental", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
			"bike_id": bikeID,
		})
		return nil, err
	}

	s.logger.Info("Rental created", map[string]interface{}{
		"rental_id":   created.ID,
		"user_id":     created.UserID,
		"bike_id":     created.BikeID,
		"total_price": created.TotalPrice,
	})

	s.syncBikeAvailability(ctx, bikeID, false)

	return created, nil
}

func (s *RentalService) ListRentals(ctx context.Context, caller domain.Identity, skip, limit int) ([]*domain.Rental, error) {
	if !caller.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.rentalRepo.ListRentals(ctx, skip, limit)
}

func (s *RentalService) ListUserRentals(ctx context.Context, caller domain.Identity, userID int64) ([]*domain.Rental, error) {
	if !caller.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	return s.rentalRepo.ListRentalsByUserID(ctx, userID)
}

func (s *RentalService) CompleteRental(ctx context.Context, caller domain.Identity, rentalID int64) (*domain.Rental, error) {
	return s.terminate(ctx, caller, rentalID, domain.RentalCompleted)
}

func (s *RentalService) CancelRental(ctx context.Context, caller domain.Identity, rentalID int64) (*domain.Rental, error) {
	return s.terminate(ctx, caller, rentalID, domain.RentalCanceled)
}

// terminate drives the one-way transition active -> {completed, canceled}.
// Completion and cancellation share the same pricing primitive: the price is
// recomputed from actual elapsed time at the bike's current hourly rate, the
// provisional price is retained when the remote lookup fails, and
// cancellation then applies the flat penalty multiplier. Once authorized, a
// termination always succeeds; pricing accuracy is best-effort.
func (s *RentalService) terminate(ctx context.Context, caller domain.Identity, rentalID int64, target domain.RentalStatus) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetRentalByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if !caller.CanAccess(rental.UserID) {
		s.logger.Warn("Rental transition denied", map[string]interface{}{
			"rental_id": rentalID,
			"caller_id": caller.UserID,
			"owner_id":  rental.UserID,
		})
		return nil, domain.ErrForbidden
	}

	if rental.Status != domain.RentalActive {
		return nil, domain.ErrRentalNotActive
	}

	actualEnd := time.Now().UTC()
	price := rental.TotalPrice

	bike, err := s.inventory.GetBike(ctx, rental.BikeID)
	if err != nil {
		s.logger.Warn("Bike lookup failed, keeping stored price", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": rentalID,
			"bike_id":   rental.BikeID,
		})
	} else {
		price = domain.HoursBetween(rental.StartTime, actualEnd) * bike.PricePerHour
	}

	if target == domain.RentalCanceled {
		price *= domain.CancellationPenalty
	}

	rental.Status = target
	rental.ActualEndTime = &actualEnd
	rental.TotalPrice = price

	updated, err := s.rentalRepo.UpdateRentalState(ctx, rental)
	if err != nil {
		s.logger.Error("Failed to persist rental transition", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": rentalID,
			"status":    string(target),
		})
		return nil, err
	}

	s.logger.Info("Rental transitioned", map[string]interface{}{
		"rental_id":   updated.ID,
		"status":      string(updated.Status),
		"total_price": updated.TotalPrice,
	})

	s.syncBikeAvailability(ctx, rental.BikeID, true)

	return updated, nil
}

func (s *RentalService) GetPriceBreakdown(ctx context.Context, caller domain.Identity, rentalID int64) (*ports.PriceBreakdown, error) {
	rental, err := s.rentalRepo.GetRentalByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if !caller.CanAccess(rental.UserID) {
		return nil, domain.ErrForbidden
	}

	bike, err := s.inventory.GetBike(ctx, rental.BikeID)
	if err != nil {
		s.logger.Error("Bike lookup failed for price breakdown", map[string]interface{}{
			"error":     err.Error(),
			"rental_id": rentalID,
			"bike_id":   rental.BikeID,
		})
		return nil, domain.ErrBikeNotFound
	}

	plannedHours := domain.HoursBetween(rental.StartTime, rental.EndTime)
	breakdown := &ports.PriceBreakdown{
		RentalID:     rental.ID,
		BikeID:       rental.BikeID,
		BikeName:     bike.Name,
		PricePerHour: bike.PricePerHour,
		Status:       rental.Status,
		Planned: ports.PriceBreakdownWindow{
			StartTime: rental.StartTime,
			EndTime:   rental.EndTime,
			Hours:     round2(plannedHours),
			Price:     round2(plannedHours * bike.PricePerHour),
		},
	}

	if rental.ActualEndTime != nil {
		actualHours := domain.HoursBetween(rental.StartTime, *rental.ActualEndTime)
		breakdown.Actual = &ports.PriceBreakdownWindow{
			StartTime: rental.StartTime,
			EndTime:   *rental.ActualEndTime,
			Hours:     round2(actualHours),
			Price:     round2(rental.TotalPrice),
		}
	}

	return breakdown, nil
}

// syncBikeAvailability reconciles the remote availability flag after a state
// transition. One attempt, no retry, no rollback on failure.
func (s *RentalService) syncBikeAvailability(ctx context.Context, bikeID int64, available bool) {
	if err := s.inventory.SyncAvailability(ctx, bikeID, available); err != nil {
		s.logger.Warn("Failed to sync bike availability", map[string]interface{}{
			"error":     err.Error(),
			"bike_id":   bikeID,
			"available": available,
		})
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
