package handlers

import (
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"coffeemachine/internal/logger"
	"coffeemachine/internal/service"
)

// Handler wires the HTTP layer to services and logging.
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

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live status stream (HTTP upgrade) on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerMachineRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerMachineRoutes(api *gin.RouterGroup) {
	m := api.Group("/machine")
	{
		m.POST("/power", h.powerToggle)
		m.POST("/select", h.selectDrink)
		m.POST("/brew", h.brew)
		m.POST("/cancel", h.cancel)
		m.POST("/cup/place", h.placeCup)
		m.POST("/cup/remove", h.removeCup)
		m.POST("/refill/water", h.refillWater)
		m.POST("/refill/beans", h.refillBeans)
		m.POST("/waste/empty", h.emptyWaste)
		m.POST("/error/clear", h.clearError)
		m.GET("/status", h.getStatus)
		m.GET("/telemetry", h.getTelemetry)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/faults", h.getFaults)
	api.DELETE("/faults", h.clearFaults)
	api.GET("/logs", h.getLogs)
}
