// Package http wires the application services to their REST routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ctrc/internal/interfaces/http/handlers"
	"ctrc/internal/interfaces/http/middleware"
	"ctrc/internal/shared/logger"
)

// Router holds the configured gin engine and its handlers.
type Router struct {
	engine              *gin.Engine
	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	ticketHandler       *handlers.TicketHandler
	notificationHandler *handlers.NotificationHandler
	portalHandler       *handlers.PortalHandler
}

// RouterConfig carries the handlers and settings a Router needs.
type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	TicketHandler       *handlers.TicketHandler
	NotificationHandler *handlers.NotificationHandler
	PortalHandler       *handlers.PortalHandler
	AllowedOrigins      []string
	Logger              logger.Interface
}

// NewRouter builds the gin engine with middleware and all routes
// registered.
func NewRouter(cfg RouterConfig) *Router {
	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(cfg.Logger))
	engine.Use(middleware.CORS(cfg.AllowedOrigins))

	r := &Router{
		engine:              engine,
		authHandler:         cfg.AuthHandler,
		userHandler:         cfg.UserHandler,
		ticketHandler:       cfg.TicketHandler,
		notificationHandler: cfg.NotificationHandler,
		portalHandler:       cfg.PortalHandler,
	}
	r.registerRoutes()
	return r
}

func (r *Router) registerRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/password", r.authHandler.ChangePassword)
		auth.POST("/recover", r.authHandler.RecoverPassword)
	}

	users := api.Group("/users")
	{
		users.GET("", r.userHandler.List)
		users.POST("", r.userHandler.Save)
		users.GET("/:ref", r.userHandler.Find)
		users.DELETE("/:ref", r.userHandler.Delete)
		users.PUT("/:ref/profile", r.userHandler.UpdateProfile)
	}

	tickets := api.Group("/tickets")
	{
		tickets.POST("", r.ticketHandler.Create)
		tickets.GET("", r.ticketHandler.List)
		tickets.GET("/pending-count", r.ticketHandler.CountPending)
		tickets.PATCH("/:id/status", r.ticketHandler.SetStatus)
		tickets.POST("/:id/comments", r.ticketHandler.AddComment)
		tickets.GET("/:id/comments", r.ticketHandler.ListComments)
	}

	notifications := api.Group("/notifications")
	{
		notifications.POST("", r.notificationHandler.Create)
		notifications.GET("", r.notificationHandler.List)
		notifications.GET("/new-count", r.notificationHandler.CountNew)
	}

	portal := api.Group("/portal")
	{
		portal.GET("", r.portalHandler.Data)
		portal.GET("/metrics", r.portalHandler.Metrics)
	}
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
