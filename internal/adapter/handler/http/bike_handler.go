package http

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type BikeHandler struct {
	bikeService ports.BikeService
	storage     ports.ObjectStorage
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
	db          *sql.DB
}

type UpdateBikeRequest struct {
	Name         *string  `json:"name,omitempty" example:"City Cruiser"`
	Description  *string  `json:"description,omitempty" example:"Comfortable city bike"`
	PricePerHour *float64 `json:"price_per_hour,omitempty" example:"12.5"`
	IsAvailable  *bool    `json:"is_available,omitempty" example:"true"`
}

type BikeResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PricePerHour float64   `json:"price_per_hour"`
	IsAvailable  bool      `json:"is_available"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DeleteBikeResponse struct {
	Message string `json:"message"`
	BikeID  int64  `json:"bike_id"`
}

func NewBikeHandler(
	bikeService ports.BikeService,
	storage ports.ObjectStorage,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
	db *sql.DB,
) *BikeHandler {
	return &BikeHandler{
		bikeService: bikeService,
		storage:     storage,
		logger:      logger,
		metrics:     metrics,
		db:          db,
	}
}

func newBikeResponse(bike *domain.Bike) BikeResponse {
	return BikeResponse{
		ID:           bike.ID,
		Name:         bike.Name,
		Description:  bike.Description,
		PricePerHour: bike.PricePerHour,
		IsAvailable:  bike.IsAvailable,
		ImageURL:     bike.ImageURL,
		CreatedAt:    bike.CreatedAt,
		UpdatedAt:    bike.UpdatedAt,
	}
}

// @Summary Create a bike
// @Description Creates a bike listing with an uploaded image
// @Tags bikes
// @Accept mpfd
// @Produce json
// @Param name formData string true "Bike name"
// @Param description formData string true "Description"
// @Param price_per_hour formData number true "Hourly price"
// @Param is_available formData bool false "Availability"
// @Param image formData file true "Bike image"
// @Success 201 {object} BikeResponse "Bike created"
// @Failure 400 {object} errorResponse "Invalid request"
// @Router /bikes [post]
func (h *BikeHandler) CreateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	name := c.PostForm("name")
	description := c.PostForm("description")
	if name == "" {
		newErrorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	pricePerHour, err := strconv.ParseFloat(c.PostForm("price_per_hour"), 64)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "price_per_hour must be a number")
		return
	}

	isAvailable, err := strconv.ParseBool(c.DefaultPostForm("is_available", "true"))
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "is_available must be a boolean")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", map[string]interface{}{
			"error":    err.Error(),
			"filename": fileHeader.Filename,
		})
		newErrorResponse(c, http.StatusBadRequest, "cannot read image file")
		return
	}
	defer file.Close()

	bike := &domain.Bike{
		Name:         name,
		Description:  description,
		PricePerHour: pricePerHour,
		IsAvailable:  isAvailable,
	}

	created, err := h.bikeService.CreateBike(
		c.Request.Context(),
		bike,
		file,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newBikeResponse(created))
}

// @Summary List bikes
// @Tags bikes
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Param available_only query bool false "Only available bikes"
// @Success 200 {array} BikeResponse "Bikes"
// @Router /bikes [get]
func (h *BikeHandler) ListBikes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	skip, limit := paginationParams(c)
	availableOnly, _ := strconv.ParseBool(c.DefaultQuery("available_only", "false"))

	bikes, err := h.bikeService.ListBikes(c.Request.Context(), skip, limit, availableOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]BikeResponse, len(bikes))
	for i, bike := range bikes {
		out[i] = newBikeResponse(bike)
	}

	c.JSON(http.StatusOK, out)
}

// @Summary Get a bike
// @Tags bikes
// @Produce json
// @Param id path int true "Bike ID"
// @Success 200 {object} BikeResponse "Bike"
// @Failure 404 {object} errorResponse "Bike not found"
// @Router /bikes/{id} [get]
func (h *BikeHandler) GetBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := parseIDParam(c)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bike ID")
		return
	}

	bike, err := h.bikeService.GetBikeByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBikeResponse(bike))
}

// @Summary Update a bike
// @Description Partial update; this is also the endpoint the rental service drives for availability flips
// @Tags bikes
// @Accept json
// @Produce json
// @Param id path int true "Bike ID"
// @Param request body UpdateBikeRequest true "Fields to update"
// @Success 200 {object} BikeResponse "Bike updated"
// @Failure 400 {object} errorResponse "Invalid request"
// @Failure 404 {object} errorResponse "Bike not found"
// @Router /bikes/{id} [put]
func (h *BikeHandler) UpdateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := parseIDParam(c)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bike ID")
		return
	}

	var req UpdateBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	update := &domain.BikeUpdate{
		Name:         req.Name,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
		IsAvailable:  req.IsAvailable,
	}

	updated, err := h.bikeService.UpdateBike(c.Request.Context(), id, update)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBikeResponse(updated))
}

// @Summary Delete a bike
// @Description Deletes the bike and best-effort deletes its stored image
// @Tags bikes
// @Produce json
// @Param id path int true "Bike ID"
// @Success 200 {object} DeleteBikeResponse "Bike deleted"
// @Failure 404 {object} errorResponse "Bike not found"
// @Router /bikes/{id} [delete]
func (h *BikeHandler) DeleteBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id, err := parseIDParam(c)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bike ID")
		return
	}

	if err := h.bikeService.DeleteBike(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteBikeResponse{
		Message: "Bike deleted successfully",
		BikeID:  id,
	})
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Liveness, db and storage status"
// @Router /health [get]
func (h *BikeHandler) Health(c *gin.Context) {
	health := gin.H{
		"status":    "healthy",
		"service":   "bike",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		health["database"] = gin.H{"status": "error", "error": err.Error()}
		health["status"] = "unhealthy"
	} else {
		health["database"] = gin.H{"status": "connected"}
	}

	if h.storage.Available() {
		health["storage"] = gin.H{"status": "available"}
	} else {
		health["storage"] = gin.H{"status": "degraded"}
	}

	c.JSON(http.StatusOK, health)
}

func parseIDParam(c *gin.Context) (int64, error) {
	return parseInt64Param(c, "id")
}

func parseInt64Param(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
