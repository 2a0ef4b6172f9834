package services

import (
	"context"
	"testing"
	"time"

	"github.com/webike/rentals/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type fakeRentalRepo struct {
	rentals map[int64]*domain.Rental
	nextID  int64
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{rentals: make(map[int64]*domain.Rental), nextID: 1}
}

func (r *fakeRentalRepo) CreateRental(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	stored := *rental
	stored.ID = r.nextID
	r.nextID++
	r.rentals[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeRentalRepo) GetRentalByID(_ context.Context, id int64) (*domain.Rental, error) {
	rental, ok := r.rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	out := *rental
	return &out, nil
}

func (r *fakeRentalRepo) ListRentals(_ context.Context, skip, limit int) ([]*domain.Rental, error) {
	var out []*domain.Rental
	for _, rental := range r.rentals {
		copied := *rental
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeRentalRepo) ListRentalsByUserID(_ context.Context, userID int64) ([]*domain.Rental, error) {
	var out []*domain.Rental
	for _, rental := range r.rentals {
		if rental.UserID == userID {
			copied := *rental
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeRentalRepo) UpdateRentalState(_ context.Context, rental *domain.Rental) (*domain.Rental, error) {
	existing, ok := r.rentals[rental.ID]
	if !ok || existing.Status != domain.RentalActive {
		return nil, domain.ErrRentalNotActive
	}
	stored := *rental
	r.rentals[stored.ID] = &stored
	out := stored
	return &out, nil
}

type syncCall struct {
	bikeID    int64
	available bool
}

type fakeInventory struct {
	bike      *domain.BikeInfo
	getErr    error
	syncErr   error
	syncCalls []syncCall
}

func (f *fakeInventory) GetBike(_ context.Context, bikeID int64) (*domain.BikeInfo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := *f.bike
	return &out, nil
}

func (f *fakeInventory) SyncAvailability(_ context.Context, bikeID int64, available bool) error {
	f.syncCalls = append(f.syncCalls, syncCall{bikeID: bikeID, available: available})
	return f.syncErr
}

func (f *fakeInventory) Health(_ context.Context) (string, error) {
	return "healthy", nil
}

func availableBike() *domain.BikeInfo {
	return &domain.BikeInfo{ID: 7, Name: "City Cruiser", PricePerHour: 10, IsAvailable: true}
}

func newRentalFixture(inventory *fakeInventory) (*RentalService, *fakeRentalRepo) {
	repo := newFakeRentalRepo()
	svc := NewRentalService(repo, inventory, nopLogger{}, validator.New())
	return svc, repo
}

func rider(id int64) domain.Identity {
	return domain.Identity{UserID: id, Email: "rider@example.com"}
}

func admin() domain.Identity {
	return domain.Identity{UserID: 999, Email: "admin@example.com", IsAdmin: true}
}

func TestCreateRental(t *testing.T) {
	ctx := context.Background()

	t.Run("books an available bike at hours times hourly rate", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, _ := newRentalFixture(inventory)

		start := time.Now().UTC().Add(time.Hour)
		end := start.Add(2 * time.Hour)

		rental, err := svc.CreateRental(ctx, rider(1), 1, 7, start, end)
		require.NoError(t, err)

		assert.Equal(t, domain.RentalActive, rental.Status)
		assert.InDelta(t, 20.0, rental.TotalPrice, 1e-9)
		require.Len(t, inventory.syncCalls, 1)
		assert.Equal(t, syncCall{bikeID: 7, available: false}, inventory.syncCalls[0])
	})

	t.Run("rejects booking on behalf of another user", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)

		start := time.Now().UTC().Add(time.Hour)
		_, err := svc.CreateRental(ctx, rider(1), 2, 7, start, start.Add(time.Hour))

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, repo.rentals)
		assert.Empty(t, inventory.syncCalls)
	})

	t.Run("rejects an unavailable bike", func(t *testing.T) {
		bike := availableBike()
		bike.IsAvailable = false
		inventory := &fakeInventory{bike: bike}
		svc, _ := newRentalFixture(inventory)

		start := time.Now().UTC().Add(time.Hour)
		_, err := svc.CreateRental(ctx, rider(1), 1, 7, start, start.Add(time.Hour))

		assert.ErrorIs(t, err, domain.ErrBikeUnavailable)
	})

	t.Run("propagates a missing bike", func(t *testing.T) {
		inventory := &fakeInventory{getErr: domain.ErrBikeNotFound}
		svc, _ := newRentalFixture(inventory)

		start := time.Now().UTC().Add(time.Hour)
		_, err := svc.CreateRental(ctx, rider(1), 1, 7, start, start.Add(time.Hour))

		assert.ErrorIs(t, err, domain.ErrBikeNotFound)
	})

	t.Run("propagates an unreachable bike service", func(t *testing.T) {
		inventory := &fakeInventory{getErr: domain.ErrDependencyUnavailable}
		svc, repo := newRentalFixture(inventory)

		start := time.Now().UTC().Add(time.Hour)
		_, err := svc.CreateRental(ctx, rider(1), 1, 7, start, start.Add(time.Hour))

		assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
		assert.Empty(t, repo.rentals)
	})

	t.Run("rejects an inverted or empty window", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, _ := newRentalFixture(inventory)

		start := time.Now().UTC().Add(2 * time.Hour)

		_, err := svc.CreateRental(ctx, rider(1), 1, 7, start, start)
		assert.ErrorIs(t, err, domain.ErrInvalidTimeWindow)

		_, err = svc.CreateRental(ctx, rider(1), 1, 7, start, start.Add(-time.Hour))
		assert.ErrorIs(t, err, domain.ErrInvalidTimeWindow)
	})

	t.Run("moves a past start time to now instead of rejecting", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, _ := newRentalFixture(inventory)

		now := time.Now().UTC()
		rental, err := svc.CreateRental(ctx, rider(1), 1, 7, now.Add(-2*time.Hour), now.Add(time.Hour))
		require.NoError(t, err)

		assert.WithinDuration(t, now, rental.StartTime, 2*time.Second)
		// Only the remaining hour is billed.
		assert.InDelta(t, 10.0, rental.TotalPrice, 0.1)
	})

	t.Run("rejects a window that ends before now", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, _ := newRentalFixture(inventory)

		now := time.Now().UTC()
		_, err := svc.CreateRental(ctx, rider(1), 1, 7, now.Add(-3*time.Hour), now.Add(-time.Hour))

		assert.ErrorIs(t, err, domain.ErrWindowInPast)
	})

	t.Run("canonicalizes zoned timestamps to UTC", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, _ := newRentalFixture(inventory)

		zone := time.FixedZone("UTC+3", 3*60*60)
		start := time.Now().In(zone).Add(time.Hour)
		end := start.Add(2 * time.Hour)

		rental, err := svc.CreateRental(ctx, rider(1), 1, 7, start, end)
		require.NoError(t, err)

		assert.Equal(t, time.UTC, rental.StartTime.Location())
		assert.True(t, rental.StartTime.Equal(start))
		assert.InDelta(t, 20.0, rental.TotalPrice, 1e-9)
	})

	t.Run("survives a failed availability sync", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike(), syncErr: domain.ErrDependencyUnavailable}
		svc, repo := newRentalFixture(inventory)

		start := time.Now().UTC().Add(time.Hour)
		rental, err := svc.CreateRental(ctx, rider(1), 1, 7, start, start.Add(time.Hour))

		require.NoError(t, err)
		assert.Contains(t, repo.rentals, rental.ID)
		assert.Len(t, inventory.syncCalls, 1)
	})
}

func seedActiveRental(repo *fakeRentalRepo, userID int64, startedAgo time.Duration, price float64) *domain.Rental {
	now := time.Now().UTC()
	rental := &domain.Rental{
		UserID:     userID,
		BikeID:     7,
		StartTime:  now.Add(-startedAgo),
		EndTime:    now.Add(2 * time.Hour),
		TotalPrice: price,
		Status:     domain.RentalActive,
		CreatedAt:  now.Add(-startedAgo),
	}
	created, _ := repo.CreateRental(context.Background(), rental)
	return created
}

func TestCompleteRental(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes the price from actual elapsed time", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, 3*time.Hour, 20)

		rental, err := svc.CompleteRental(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.RentalCompleted, rental.Status)
		require.NotNil(t, rental.ActualEndTime)
		assert.InDelta(t, 30.0, rental.TotalPrice, 0.1)
		require.Len(t, inventory.syncCalls, 1)
		assert.Equal(t, syncCall{bikeID: 7, available: true}, inventory.syncCalls[0])
	})

	t.Run("keeps the stored price when the bike lookup fails", func(t *testing.T) {
		inventory := &fakeInventory{getErr: domain.ErrDependencyUnavailable}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, 3*time.Hour, 20)

		rental, err := svc.CompleteRental(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.RentalCompleted, rental.Status)
		assert.InDelta(t, 20.0, rental.TotalPrice, 1e-9)
	})

	t.Run("rejects a rental that is not active", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)
		repo.rentals[seeded.ID].Status = domain.RentalCanceled

		_, err := svc.CompleteRental(ctx, rider(1), seeded.ID)

		assert.ErrorIs(t, err, domain.ErrRentalNotActive)
		assert.Equal(t, domain.RentalCanceled, repo.rentals[seeded.ID].Status)
		assert.Empty(t, inventory.syncCalls)
	})

	t.Run("rejects a caller who does not own the rental", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)

		_, err := svc.CompleteRental(ctx, rider(2), seeded.ID)

		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, domain.RentalActive, repo.rentals[seeded.ID].Status)
	})

	t.Run("lets an admin complete any rental", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)

		rental, err := svc.CompleteRental(ctx, admin(), seeded.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.RentalCompleted, rental.Status)
	})

	t.Run("unknown rental", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, _ := newRentalFixture(inventory)

		_, err := svc.CompleteRental(ctx, rider(1), 42)

		assert.ErrorIs(t, err, domain.ErrRentalNotFound)
	})
}

func TestCancelRental(t *testing.T) {
	ctx := context.Background()

	t.Run("halves the recomputed price", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)

		rental, err := svc.CancelRental(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.RentalCanceled, rental.Status)
		// One elapsed hour at 10/h, then the penalty.
		assert.InDelta(t, 5.0, rental.TotalPrice, 0.1)
		require.Len(t, inventory.syncCalls, 1)
		assert.True(t, inventory.syncCalls[0].available)
	})

	t.Run("applies the penalty to the retained price when the lookup fails", func(t *testing.T) {
		inventory := &fakeInventory{getErr: domain.ErrDependencyUnavailable}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)

		rental, err := svc.CancelRental(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		assert.InDelta(t, 10.0, rental.TotalPrice, 1e-9)
	})

	t.Run("rejects a second cancellation", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)

		_, err := svc.CancelRental(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		_, err = svc.CancelRental(ctx, rider(1), seeded.ID)
		assert.ErrorIs(t, err, domain.ErrRentalNotActive)
	})
}

func TestListRentals(t *testing.T) {
	ctx := context.Background()
	inventory := &fakeInventory{bike: availableBike()}
	svc, repo := newRentalFixture(inventory)
	seedActiveRental(repo, 1, time.Hour, 20)
	seedActiveRental(repo, 2, time.Hour, 20)

	t.Run("admin sees everything", func(t *testing.T) {
		rentals, err := svc.ListRentals(ctx, admin(), 0, 100)
		require.NoError(t, err)
		assert.Len(t, rentals, 2)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		_, err := svc.ListRentals(ctx, rider(1), 0, 100)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("owner lists own rentals", func(t *testing.T) {
		rentals, err := svc.ListUserRentals(ctx, rider(1), 1)
		require.NoError(t, err)
		assert.Len(t, rentals, 1)
	})

	t.Run("non-owner cannot list someone else's rentals", func(t *testing.T) {
		_, err := svc.ListUserRentals(ctx, rider(1), 2)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin can list anyone's rentals", func(t *testing.T) {
		rentals, err := svc.ListUserRentals(ctx, admin(), 2)
		require.NoError(t, err)
		assert.Len(t, rentals, 1)
	})
}

func TestGetPriceBreakdown(t *testing.T) {
	ctx := context.Background()

	t.Run("active rental reports planned figures only", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 30)

		breakdown, err := svc.GetPriceBreakdown(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		assert.Equal(t, seeded.ID, breakdown.RentalID)
		assert.Equal(t, "City Cruiser", breakdown.BikeName)
		assert.InDelta(t, 3.0, breakdown.Planned.Hours, 0.01)
		assert.InDelta(t, 30.0, breakdown.Planned.Price, 0.1)
		assert.Nil(t, breakdown.Actual)
	})

	t.Run("terminated rental reports the charged price", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, 2*time.Hour, 20)

		completed, err := svc.CompleteRental(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		breakdown, err := svc.GetPriceBreakdown(ctx, rider(1), seeded.ID)
		require.NoError(t, err)

		require.NotNil(t, breakdown.Actual)
		assert.InDelta(t, 2.0, breakdown.Actual.Hours, 0.01)
		assert.InDelta(t, completed.TotalPrice, breakdown.Actual.Price, 0.01)
	})

	t.Run("bike lookup failure is a not-found", func(t *testing.T) {
		inventory := &fakeInventory{getErr: domain.ErrDependencyUnavailable}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)

		_, err := svc.GetPriceBreakdown(ctx, rider(1), seeded.ID)

		assert.ErrorIs(t, err, domain.ErrBikeNotFound)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		inventory := &fakeInventory{bike: availableBike()}
		svc, repo := newRentalFixture(inventory)
		seeded := seedActiveRental(repo, 1, time.Hour, 20)

		_, err := svc.GetPriceBreakdown(ctx, rider(2), seeded.ID)

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
