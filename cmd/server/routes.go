package main

import (
	"github.com/brainfuel/backend/internal/handlers"
	"github.com/brainfuel/backend/internal/middleware"
	"github.com/brainfuel/backend/pkg/logger"
	"github.com/brainfuel/backend/pkg/response"
	"github.com/gin-gonic/gin"
)

// newRouter builds the Gin engine with middleware and all HTTP routes.
func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	metricsHandler := handlers.NewMetricsHandler(a.gw)

	// Middleware
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.Use(metricsHandler.Instrument())
	r.Use(middleware.CORS(a.cfg))
	r.Use(middleware.BodyLimit(a.cfg.Server.BodyLimitMB))
	r.Use(middleware.AuditLog())

	healthHandler := handlers.NewHealthHandler(a.gw)
	projectHandler := handlers.NewProjectHandler(a.gw)
	userHandler := handlers.NewUserHandler(a.gw, a.cfg)
	categoryHandler := handlers.NewCategoryHandler(a.gw)

	r.GET("/metrics", metricsHandler.Metrics)

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.CheckHealth)

		// Projects (public; writes accept an optional token)
		projects := api.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.GET("/trending", projectHandler.Trending)
			projects.GET("/:id", projectHandler.GetByID)
			projects.POST("", middleware.OptionalAuth(), projectHandler.Create)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
			projects.POST("/:id/support", middleware.OptionalAuth(), projectHandler.ToggleSupport)
		}

		users := api.Group("/users")
		{
			// Auth routes (public, rate limited)
			users.POST("/register", a.authLimiter.Middleware(), userHandler.Register)
			users.POST("/login", a.authLimiter.Middleware(), userHandler.Login)

			// Protected routes
			protected := users.Group("", middleware.AuthRequired())
			{
				protected.POST("/logout", userHandler.Logout)
				protected.GET("/profile", userHandler.GetProfile)
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.GET("/projects", userHandler.Projects)
				protected.GET("/supported", userHandler.Supported)
			}
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/with-counts", categoryHandler.ListWithCounts)
			categories.GET("/:id", categoryHandler.Get)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	return r
}
