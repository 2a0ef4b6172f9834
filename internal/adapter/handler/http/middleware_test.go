package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/webike/rentals/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeIdentityClient struct {
	identity *domain.Identity
	err      error
}

func (f *fakeIdentityClient) VerifyToken(_ context.Context, token string) (*domain.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func authTestRouter(client *fakeIdentityClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RemoteAuthMiddleware(client, nopLogger{}), func(c *gin.Context) {
		payload, ok := getAuthPayload(c, authorizationPayloadKey)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payload missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": payload.UserID})
	})
	return router
}

func TestRemoteAuthMiddleware(t *testing.T) {
	t.Run("passes a verified identity to the handler", func(t *testing.T) {
		client := &fakeIdentityClient{identity: &domain.Identity{UserID: 5, Email: "rider@example.com"}}
		router := authTestRouter(client)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer tok123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id": 5}`, w.Body.String())
	})

	t.Run("missing header is a 401", func(t *testing.T) {
		client := &fakeIdentityClient{identity: &domain.Identity{UserID: 5}}
		router := authTestRouter(client)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is a 401", func(t *testing.T) {
		client := &fakeIdentityClient{identity: &domain.Identity{UserID: 5}}
		router := authTestRouter(client)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token is a 401", func(t *testing.T) {
		client := &fakeIdentityClient{err: domain.ErrUnauthenticated}
		router := authTestRouter(client)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer expired")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unreachable auth service is a 503", func(t *testing.T) {
		client := &fakeIdentityClient{err: domain.ErrDependencyUnavailable}
		router := authTestRouter(client)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer tok123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"email taken", domain.ErrEmailTaken, http.StatusBadRequest},
		{"bike unavailable", domain.ErrBikeUnavailable, http.StatusBadRequest},
		{"window in past", domain.ErrWindowInPast, http.StatusBadRequest},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"rental not found", domain.ErrRentalNotFound, http.StatusNotFound},
		{"rental not active", domain.ErrRentalNotActive, http.StatusConflict},
		{"dependency unavailable", domain.ErrDependencyUnavailable, http.StatusServiceUnavailable},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleServiceError(c, tc.err)

			assert.Equal(t, tc.code, w.Code)
		})
	}
}
