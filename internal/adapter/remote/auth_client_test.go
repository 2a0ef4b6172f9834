package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/webike/rentals/internal/config"
	"github.com/webike/rentals/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func newAuthClient(baseURL string) *AuthClient {
	return NewAuthClient(&config.AuthService{Address: baseURL, Timeout: time.Second}, nopLogger{})
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards the bearer token and decodes the identity", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/me", r.URL.Path)
			assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": 5, "email": "rider@example.com", "is_admin": true}`))
		}))
		defer srv.Close()

		ident, err := newAuthClient(srv.URL).VerifyToken(ctx, "tok123")
		require.NoError(t, err)

		assert.Equal(t, int64(5), ident.UserID)
		assert.Equal(t, "rider@example.com", ident.Email)
		assert.True(t, ident.IsAdmin)
	})

	t.Run("a 401 is a definitive rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := newAuthClient(srv.URL).VerifyToken(ctx, "expired")

		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("an unreachable auth service is a dependency failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := newAuthClient(srv.URL).VerifyToken(ctx, "tok123")

		assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
	})

	t.Run("an unexpected status is a dependency failure, not a rejection", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newAuthClient(srv.URL).VerifyToken(ctx, "tok123")

		assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
		assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
	})
}
