package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type RentalHandler struct {
	rentalService ports.RentalService
	inventory     ports.InventoryClient
	logger        ports.LoggerPort
	metrics       ports.MetricsPort
	db            *sql.DB
}

type CreateRentalRequest struct {
	UserID    int64     `json:"user_id" binding:"required" example:"1"`
	BikeID    int64     `json:"bike_id" binding:"required" example:"1"`
	StartTime time.Time `json:"start_time" binding:"required" example:"2026-09-01T10:00:00Z"`
	EndTime   time.Time `json:"end_time" binding:"required" example:"2026-09-01T12:00:00Z"`
}

type RentalResponse struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	BikeID        int64      `json:"bike_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	ActualEndTime *time.Time `json:"actual_end_time,omitempty"`
	TotalPrice    float64    `json:"total_price"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewRentalHandler(
	rentalService ports.RentalService,
	inventory ports.InventoryClient,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
	db *sql.DB,
) *RentalHandler {
	return &RentalHandler{
		rentalService: rentalService,
		inventory:     inventory,
		logger:        logger,
		metrics:       metrics,
		db:            db,
	}
}

func newRentalResponse(rental *domain.Rental) RentalResponse {
	return RentalResponse{
		ID:            rental.ID,
		UserID:        rental.UserID,
		BikeID:        rental.BikeID,
		StartTime:     rental.StartTime,
		EndTime:       rental.EndTime,
		ActualEndTime: rental.ActualEndTime,
		TotalPrice:    rental.TotalPrice,
		Status:        string(rental.Status),
		CreatedAt:     rental.CreatedAt,
	}
}

// @Summary Create a rental
// @Description Books an available bike for the authenticated user
// @Tags rentals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateRentalRequest true "Rental data"
// @Success 201 {object} RentalResponse "Rental created"
// @Failure 400 {object} errorResponse "Invalid time window or bike unavailable"
// @Failure 403 {object} errorResponse "Rentals can only be created for yourself"
// @Failure 404 {object} errorResponse "Bike not found"
// @Failure 503 {object} errorResponse "Dependency unavailable"
// @Router /rentals [post]
func (h *RentalHandler) CreateRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	caller, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	rental, err := h.rentalService.CreateRental(c.Request.Context(), caller, req.UserID, req.BikeID, req.StartTime, req.EndTime)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRentalResponse(rental))
}

// @Summary List all rentals
// @Description Administrators only
// @Tags rentals
// @Security BearerAuth
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} RentalResponse "Rentals"
// @Failure 403 {object} errorResponse "Access denied"
// @Router /rentals [get]
func (h *RentalHandler) ListRentals(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	caller, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	skip, limit := paginationParams(c)

	rentals, err := h.rentalService.ListRentals(c.Request.Context(), caller, skip, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rentalResponses(rentals))
}

// @Summary List a user's rentals
// @Tags rentals
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} RentalResponse "Rentals"
// @Failure 403 {object} errorResponse "Access denied"
// @Router /rentals/user/{user_id} [get]
func (h *RentalHandler) ListUserRentals(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	caller, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, err := parseInt64Param(c, "user_id")
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	rentals, err := h.rentalService.ListUserRentals(c.Request.Context(), caller, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rentalResponses(rentals))
}

// @Summary Complete a rental
// @Description Recomputes the price from actual elapsed time and frees the bike
// @Tags rentals
// @Security BearerAuth
// @Produce json
// @Param id path int true "Rental ID"
// @Success 200 {object} RentalResponse "Rental completed"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 404 {object} errorResponse "Rental not found"
// @Failure 409 {object} errorResponse "Rental is not active"
// @Router /rentals/{id}/complete [put]
func (h *RentalHandler) CompleteRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	caller, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rentalID, err := parseIDParam(c)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	rental, err := h.rentalService.CompleteRental(c.Request.Context(), caller, rentalID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRentalResponse(rental))
}

// @Summary Cancel a rental
// @Description Applies the 50% cancellation penalty and frees the bike
// @Tags rentals
// @Security BearerAuth
// @Produce json
// @Param id path int true "Rental ID"
// @Success 200 {object} RentalResponse "Rental canceled"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 404 {object} errorResponse "Rental not found"
// @Failure 409 {object} errorResponse "Rental is not active"
// @Router /rentals/{id}/cancel [put]
func (h *RentalHandler) CancelRental(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	caller, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rentalID, err := parseIDParam(c)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	rental, err := h.rentalService.CancelRental(c.Request.Context(), caller, rentalID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRentalResponse(rental))
}

// @Summary Rental price breakdown
// @Tags rentals
// @Security BearerAuth
// @Produce json
// @Param id path int true "Rental ID"
// @Success 200 {object} ports.PriceBreakdown "Planned and actual figures"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 404 {object} errorResponse "Rental or bike information not available"
// @Router /rentals/{id}/price-breakdown [get]
func (h *RentalHandler) PriceBreakdown(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	caller, exists := getAuthPayload(c, authorizationPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rentalID, err := parseIDParam(c)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rental ID")
		return
	}

	breakdown, err := h.rentalService.GetPriceBreakdown(c.Request.Context(), caller, rentalID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// @Summary Health check
// @Description Reports db connectivity and bike-service reachability
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Health report"
// @Router /health [get]
func (h *RentalHandler) Health(c *gin.Context) {
	health := gin.H{
		"status":    "healthy",
		"service":   "rental",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	dbStart := time.Now()
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		health["database"] = gin.H{"status": "error", "error": err.Error()}
		health["status"] = "unhealthy"
	} else {
		health["database"] = gin.H{
			"status":           "connected",
			"response_time_ms": float64(time.Since(dbStart).Microseconds()) / 1000,
		}
	}

	bikeStart := time.Now()
	if status, err := h.inventory.Health(c.Request.Context()); err != nil {
		health["bike_service"] = gin.H{"status": "error", "error": err.Error()}
		if health["status"] == "healthy" {
			health["status"] = "degraded"
		}
	} else {
		health["bike_service"] = gin.H{
			"status":           status,
			"response_time_ms": float64(time.Since(bikeStart).Microseconds()) / 1000,
		}
	}

	c.JSON(http.StatusOK, health)
}

func rentalResponses(rentals []*domain.Rental) []RentalResponse {
	out := make([]RentalResponse, len(rentals))
	for i, rental := range rentals {
		out[i] = newRentalResponse(rental)
	}
	return out
}
