package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/webike/rentals/internal/config"
	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"
)

// BikeClient is the rental service's typed view of the bike service.
type BikeClient struct {
	baseURL string
	client  *http.Client
	logger  ports.LoggerPort
}

func NewBikeClient(cfg *config.BikeService, logger ports.LoggerPort) *BikeClient {
	return &BikeClient{
		baseURL: cfg.Address,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (c *BikeClient) GetBike(ctx context.Context, bikeID int64) (*domain.BikeInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/bikes/%d", c.baseURL, bikeID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Cannot reach bike service", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, fmt.Errorf("%w: bike service: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var out domain.BikeInfo
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("%w: bike service: %v", domain.ErrDependencyUnavailable, err)
		}
		return &out, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrBikeNotFound
	default:
		return nil, fmt.Errorf("%w: bike service returned %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}
}

// SyncAvailability flips the remote availability flag. One attempt, no
// retry; the caller decides whether a failure matters.
func (c *BikeClient) SyncAvailability(ctx context.Context, bikeID int64, available bool) error {
	body, err := json.Marshal(map[string]bool{"is_available": available})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/bikes/%d", c.baseURL, bikeID), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: bike service: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: bike service returned %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *BikeClient) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: bike service: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: bike service returned %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Status == "" {
		out.Status = "unknown"
	}
	return out.Status, nil
}
