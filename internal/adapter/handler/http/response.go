package http

import (
	"errors"
	"net/http"

	"github.com/webike/rentals/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

func newSuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, successResponse{Message: message, Data: data})
}

// handleServiceError maps domain errors onto stable HTTP codes. Anything
// unrecognized becomes a generic 500 so internals never leak.
func handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidTimeWindow),
		errors.Is(err, domain.ErrWindowInPast),
		errors.Is(err, domain.ErrBikeUnavailable),
		errors.Is(err, domain.ErrNotAnImage):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrs):
		newErrorResponse(c, http.StatusBadRequest, "validation error")
	case errors.Is(err, domain.ErrUnauthenticated):
		newErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		newErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrBikeNotFound),
		errors.Is(err, domain.ErrRentalNotFound):
		newErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrRentalNotActive):
		newErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrDependencyUnavailable):
		newErrorResponse(c, http.StatusServiceUnavailable, "service unavailable")
	default:
		newErrorResponse(c, http.StatusInternalServerError, "internal server error")
	}
}
