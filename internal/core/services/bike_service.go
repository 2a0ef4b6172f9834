package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"

	"github.com/go-playground/validator/v10"
)

const bikeCacheTTL = 15 * time.Minute

type BikeService struct {
	bikeRepo ports.BikeRepository
	storage  ports.ObjectStorage
	logger   ports.LoggerPort
	validate *validator.Validate
	cache    ports.CachePort
}

func NewBikeService(
	bikeRepo ports.BikeRepository,
	storage ports.ObjectStorage,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *BikeService {
	return &BikeService{
		bikeRepo: bikeRepo,
		storage:  storage,
		logger:   logger,
		validate: validate,
		cache:    cache,
	}
}

// CreateBike stores the listing and its image. Object-storage failures are a
// non-fatal degradation: the bike is created with the placeholder URL.
func (s *BikeService) CreateBike(ctx context.Context, bike *domain.Bike, image io.Reader, filename, contentType string, size int64) (*domain.Bike, error) {
	if bike.PricePerHour <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if err := s.validate.Struct(bike); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.ErrNotAnImage
	}

	imageURL, err := s.storage.Upload(ctx, image, filename, contentType, size)
	if err != nil {
		s.logger.Warn("Image upload failed, using placeholder", map[string]interface{}{
			"error":    err.Error(),
			"filename": filename,
		})
		imageURL = domain.PlaceholderImageURL
	}
	bike.ImageURL = imageURL

	created, err := s.bikeRepo.CreateBike(ctx, bike)
	if err != nil {
		s.logger.Error("Failed to create bike", map[string]interface{}{
			"error": err.Error(),
			"name":  bike.Name,
		})
		return nil, err
	}

	s.logger.Info("Bike created", map[string]interface{}{
		"bike_id":   created.ID,
		"image_url": created.ImageURL,
	})

	return created, nil
}

func (s *BikeService) GetBikeByID(ctx context.Context, id int64) (*domain.Bike, error) {
	cacheKey := fmt.Sprintf("bike:%d", id)
	if cached, err := s.cache.Get(cacheKey); err == nil {
		var bike domain.Bike
		if err := json.Unmarshal(cached, &bike); err == nil {
			return &bike, nil
		}
	}

	bike, err := s.bikeRepo.GetBikeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(bike); err == nil {
		if err := s.cache.Set(cacheKey, data, bikeCacheTTL); err != nil {
			s.logger.Warn("Failed to cache bike", map[string]interface{}{
				"error":   err.Error(),
				"bike_id": id,
			})
		}
	}

	return bike, nil
}

func (s *BikeService) ListBikes(ctx context.Context, skip, limit int, availableOnly bool) ([]*domain.Bike, error) {
	return s.bikeRepo.ListBikes(ctx, skip, limit, availableOnly)
}

func (s *BikeService) UpdateBike(ctx context.Context, id int64, update *domain.BikeUpdate) (*domain.Bike, error) {
	if update.PricePerHour != nil && *update.PricePerHour <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	updated, err := s.bikeRepo.UpdateBike(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.invalidate(id)

	s.logger.Info("Bike updated", map[string]interface{}{
		"bike_id":      id,
		"is_available": updated.IsAvailable,
	})

	return updated, nil
}

// DeleteBike removes the row and best-effort deletes the stored image.
func (s *BikeService) DeleteBike(ctx context.Context, id int64) error {
	bike, err := s.bikeRepo.GetBikeByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, bike.ImageURL); err != nil {
		s.logger.Warn("Failed to delete bike image", map[string]interface{}{
			"error":     err.Error(),
			"bike_id":   id,
			"image_url": bike.ImageURL,
		})
	}

	if err := s.bikeRepo.DeleteBike(ctx, id); err != nil {
		return err
	}

	s.invalidate(id)

	s.logger.Info("Bike deleted", map[string]interface{}{
		"bike_id": id,
	})

	return nil
}

func (s *BikeService) invalidate(id int64) {
	cacheKey := fmt.Sprintf("bike:%d", id)
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate bike cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": id,
		})
	}
}
