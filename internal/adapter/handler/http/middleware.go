package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const authorizationPayloadKey = "authorization_payload"

// RemoteAuthMiddleware authenticates requests by exchanging the bearer token
// with the auth service. A definitive rejection is a 401; an unreachable
// auth service is a 503 (the request cannot proceed without an identity).
func RemoteAuthMiddleware(identity ports.IdentityClient, logger ports.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			newErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		ident, err := identity.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrDependencyUnavailable) {
				logger.Error("Auth service unreachable", map[string]interface{}{
					"error": err.Error(),
				})
				newErrorResponse(c, http.StatusServiceUnavailable, "Authentication service unavailable")
				return
			}
			logger.Warn("Token rejected", map[string]interface{}{
				"ip": c.ClientIP(),
			})
			newErrorResponse(c, http.StatusUnauthorized, "Invalid authentication credentials")
			return
		}

		c.Set(authorizationPayloadKey, *ident)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", false
	}
	return token, true
}

func getAuthPayload(c *gin.Context, key string) (domain.Identity, bool) {
	value, exists := c.Get(key)
	if !exists {
		return domain.Identity{}, false
	}
	payload, ok := value.(domain.Identity)
	return payload, ok
}
