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

type AuthHandler struct {
	authService ports.AuthService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
	db          *sql.DB
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"rider@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
	FullName string `json:"full_name" binding:"required" example:"Jane Rider"`
	IsAdmin  bool   `json:"is_admin" example:"false"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"rider@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func NewAuthHandler(
	authService ports.AuthService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
	db *sql.DB,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		metrics:     metrics,
		db:          db,
	}
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}

// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "User data"
// @Success 201 {object} UserResponse "User created"
// @Failure 400 {object} errorResponse "Invalid request or email taken"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.FullName, req.IsAdmin)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse "Bearer token"
// @Failure 400 {object} errorResponse "Incorrect email or password"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserResponse "Authenticated user"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	token, ok := bearerToken(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), token)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// @Summary List users
// @Tags auth
// @Produce json
// @Param skip query int false "Offset"
// @Param limit query int false "Page size"
// @Success 200 {array} UserResponse "Users"
// @Router /users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	skip, limit := paginationParams(c)

	users, err := h.authService.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = newUserResponse(user)
	}

	c.JSON(http.StatusOK, out)
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Liveness and db status"
// @Router /health [get]
func (h *AuthHandler) Health(c *gin.Context) {
	health := gin.H{
		"status":    "healthy",
		"service":   "auth",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		health["database"] = gin.H{"status": "error", "error": err.Error()}
		health["status"] = "unhealthy"
	} else {
		health["database"] = gin.H{"status": "connected"}
	}

	c.JSON(http.StatusOK, health)
}

func paginationParams(c *gin.Context) (int, int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return skip, limit
}
