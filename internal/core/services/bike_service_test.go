package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/webike/rentals/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBikeRepo struct {
	bikes    map[int64]*domain.Bike
	nextID   int64
	getCalls int
}

func newFakeBikeRepo() *fakeBikeRepo {
	return &fakeBikeRepo{bikes: make(map[int64]*domain.Bike), nextID: 1}
}

func (r *fakeBikeRepo) CreateBike(_ context.Context, bike *domain.Bike) (*domain.Bike, error) {
	stored := *bike
	stored.ID = r.nextID
	r.nextID++
	r.bikes[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeBikeRepo) GetBikeByID(_ context.Context, id int64) (*domain.Bike, error) {
	r.getCalls++
	bike, ok := r.bikes[id]
	if !ok {
		return nil, domain.ErrBikeNotFound
	}
	out := *bike
	return &out, nil
}

func (r *fakeBikeRepo) ListBikes(_ context.Context, skip, limit int, availableOnly bool) ([]*domain.Bike, error) {
	var out []*domain.Bike
	for _, bike := range r.bikes {
		if availableOnly && !bike.IsAvailable {
			continue
		}
		copied := *bike
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeBikeRepo) UpdateBike(_ context.Context, id int64, update *domain.BikeUpdate) (*domain.Bike, error) {
	bike, ok := r.bikes[id]
	if !ok {
		return nil, domain.ErrBikeNotFound
	}
	if update.Name != nil {
		bike.Name = *update.Name
	}
	if update.Description != nil {
		bike.Description = *update.Description
	}
	if update.PricePerHour != nil {
		bike.PricePerHour = *update.PricePerHour
	}
	if update.IsAvailable != nil {
		bike.IsAvailable = *update.IsAvailable
	}
	out := *bike
	return &out, nil
}

func (r *fakeBikeRepo) DeleteBike(_ context.Context, id int64) error {
	if _, ok := r.bikes[id]; !ok {
		return domain.ErrBikeNotFound
	}
	delete(r.bikes, id)
	return nil
}

type fakeStorage struct {
	uploadURL   string
	uploadErr   error
	deleteErr   error
	deleteCalls []string
}

func (f *fakeStorage) Upload(_ context.Context, _ io.Reader, _, _ string, _ int64) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.uploadURL, nil
}

func (f *fakeStorage) Delete(_ context.Context, fileURL string) error {
	f.deleteCalls = append(f.deleteCalls, fileURL)
	return f.deleteErr
}

func (f *fakeStorage) Available() bool {
	return f.uploadErr == nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, error) {
	data, ok := c.entries[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return data, nil
}

func (c *fakeCache) Set(key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(key string) error {
	delete(c.entries, key)
	return nil
}

func newBikeFixture(store *fakeStorage) (*BikeService, *fakeBikeRepo, *fakeCache) {
	repo := newFakeBikeRepo()
	cache := newFakeCache()
	svc := NewBikeService(repo, store, nopLogger{}, validator.New(), cache)
	return svc, repo, cache
}

func validBike() *domain.Bike {
	return &domain.Bike{Name: "City Cruiser", Description: "Comfy", PricePerHour: 10, IsAvailable: true}
}

func imageBody() io.Reader {
	return strings.NewReader("fake image bytes")
}

func TestCreateBike(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the uploaded image URL", func(t *testing.T) {
		store := &fakeStorage{uploadURL: "https://cdn.example.com/abc.jpg"}
		svc, repo, _ := newBikeFixture(store)

		bike, err := svc.CreateBike(ctx, validBike(), imageBody(), "bike.jpg", "image/jpeg", 16)
		require.NoError(t, err)

		assert.Equal(t, "https://cdn.example.com/abc.jpg", bike.ImageURL)
		assert.Contains(t, repo.bikes, bike.ID)
	})

	t.Run("falls back to the placeholder when the upload fails", func(t *testing.T) {
		store := &fakeStorage{uploadErr: errors.New("bucket gone")}
		svc, _, _ := newBikeFixture(store)

		bike, err := svc.CreateBike(ctx, validBike(), imageBody(), "bike.jpg", "image/jpeg", 16)
		require.NoError(t, err)

		assert.Equal(t, domain.PlaceholderImageURL, bike.ImageURL)
	})

	t.Run("rejects non-image uploads", func(t *testing.T) {
		store := &fakeStorage{uploadURL: "https://cdn.example.com/abc.jpg"}
		svc, _, _ := newBikeFixture(store)

		_, err := svc.CreateBike(ctx, validBike(), imageBody(), "bike.pdf", "application/pdf", 16)

		assert.ErrorIs(t, err, domain.ErrNotAnImage)
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		store := &fakeStorage{uploadURL: "https://cdn.example.com/abc.jpg"}
		svc, _, _ := newBikeFixture(store)

		bike := validBike()
		bike.PricePerHour = 0

		_, err := svc.CreateBike(ctx, bike, imageBody(), "bike.jpg", "image/jpeg", 16)

		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})
}

func TestGetBikeByID(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the bike on first read", func(t *testing.T) {
		store := &fakeStorage{uploadURL: "https://cdn.example.com/abc.jpg"}
		svc, repo, cache := newBikeFixture(store)
		created, _ := repo.CreateBike(ctx, validBike())

		first, err := svc.GetBikeByID(ctx, created.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, cache.entries)

		callsAfterFirst := repo.getCalls
		second, err := svc.GetBikeByID(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, callsAfterFirst, repo.getCalls)
		assert.Equal(t, first.Name, second.Name)
	})

	t.Run("unknown bike", func(t *testing.T) {
		store := &fakeStorage{}
		svc, _, _ := newBikeFixture(store)

		_, err := svc.GetBikeByID(ctx, 42)

		assert.ErrorIs(t, err, domain.ErrBikeNotFound)
	})
}

func TestUpdateBike(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a partial update and invalidates the cache", func(t *testing.T) {
		store := &fakeStorage{}
		svc, repo, cache := newBikeFixture(store)
		created, _ := repo.CreateBike(ctx, validBike())

		_, err := svc.GetBikeByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotEmpty(t, cache.entries)

		available := false
		updated, err := svc.UpdateBike(ctx, created.ID, &domain.BikeUpdate{IsAvailable: &available})
		require.NoError(t, err)

		assert.False(t, updated.IsAvailable)
		assert.Equal(t, "City Cruiser", updated.Name)
		assert.Empty(t, cache.entries)
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		store := &fakeStorage{}
		svc, repo, _ := newBikeFixture(store)
		created, _ := repo.CreateBike(ctx, validBike())

		price := -1.0
		_, err := svc.UpdateBike(ctx, created.ID, &domain.BikeUpdate{PricePerHour: &price})

		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})
}

func TestDeleteBike(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the row even when the image delete fails", func(t *testing.T) {
		store := &fakeStorage{deleteErr: errors.New("object gone")}
		svc, repo, _ := newBikeFixture(store)
		created, _ := repo.CreateBike(ctx, validBike())

		err := svc.DeleteBike(ctx, created.ID)
		require.NoError(t, err)

		assert.NotContains(t, repo.bikes, created.ID)
		assert.Len(t, store.deleteCalls, 1)
	})

	t.Run("unknown bike", func(t *testing.T) {
		store := &fakeStorage{}
		svc, _, _ := newBikeFixture(store)

		err := svc.DeleteBike(ctx, 42)

		assert.ErrorIs(t, err, domain.ErrBikeNotFound)
	})
}
