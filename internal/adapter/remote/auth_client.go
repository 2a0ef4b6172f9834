package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/webike/rentals/internal/config"
	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"
)

// AuthClient verifies bearer tokens against the auth service over HTTP.
// Every call carries the client timeout and is attempted exactly once.
type AuthClient struct {
	baseURL string
	client  *http.Client
	logger  ports.LoggerPort
}

func NewAuthClient(cfg *config.AuthService, logger ports.LoggerPort) *AuthClient {
	return &AuthClient{
		baseURL: cfg.Address,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type identityResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func (c *AuthClient) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Cannot reach auth service", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: auth service: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var out identityResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("%w: auth service: %v", domain.ErrDependencyUnavailable, err)
		}
		return &domain.Identity{
			UserID:  out.ID,
			Email:   out.Email,
			IsAdmin: out.IsAdmin,
		}, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrUnauthenticated
	default:
		c.logger.Error("Unexpected auth service response", map[string]interface{}{
			"status": resp.StatusCode,
		})
		return nil, fmt.Errorf("%w: auth service returned %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	}
}
