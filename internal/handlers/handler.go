package handlers

import (
	"todohub/internal/logger"
	"todohub/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live activity stream (HTTP upgrade) — same port
	router.GET("/ws", h.wsActivity)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/profile", h.identityMiddleware, h.profile)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.identityMiddleware)
	{
		h.registerTodoRoutes(api)
		h.registerActivityRoutes(api)
	}
}

func (h *Handler) registerTodoRoutes(api *gin.RouterGroup) {
	todos := api.Group("/todos")
	{
		todos.GET("", h.listTodos)
		todos.POST("", h.createTodo)
		todos.GET("/stats", h.todoStats)
		todos.GET("/:id", h.getTodo)
		todos.PUT("/:id", h.updateTodo)
		todos.DELETE("/:id", h.deleteTodo)
		todos.PATCH("/:id/toggle", h.toggleTodo)
	}
}

func (h *Handler) registerActivityRoutes(api *gin.RouterGroup) {
	activity := api.Group("/activity")
	{
		activity.GET("", h.listActivity)
	}
}
