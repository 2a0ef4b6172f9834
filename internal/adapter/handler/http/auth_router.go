package http

import (
	"github.com/webike/rentals/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

// NewAuthRouter wires the identity service: registration, login and the
// /users/me endpoint the other services call to verify tokens.
func NewAuthRouter(cfg *config.HTTP, authHandler *AuthHandler) (*Router, error) {
	router := newEngine(cfg)

	router.GET("/health", authHandler.Health)

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	users := router.Group("/users")
	{
		users.GET("/me", authHandler.Me)
		users.GET("", authHandler.ListUsers)
	}

	return &Router{router: router}, nil
}

func newEngine(cfg *config.HTTP) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
