package handler

import (
	"github.com/labstack/echo/v4"

	"notes-service/internal/middleware"
)

// RegisterRoutes attaches every service route to e. Session endpoints are
// public; everything else passes the authentication gate.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", HealthCheck)
	e.GET("/metrics", MetricsHandler)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", Login)
	auth.DELETE("/logout", Logout)

	auth.POST("/invite", InviteUser, middleware.AuthMiddleware)
	auth.PUT("/role/:id", UpdateRole, middleware.AuthMiddleware)
	auth.GET("/users", ListUsers, middleware.AuthMiddleware)
	auth.GET("/tenants/me", GetMyTenant, middleware.AuthMiddleware)
	auth.POST("/tenants/:slug/upgrade", UpgradePlan, middleware.AuthMiddleware)
	auth.GET("/me", Me, middleware.AuthMiddleware)

	notes := api.Group("/notes")
	notes.Use(middleware.AuthMiddleware)
	notes.GET("", ListNotes)
	notes.POST("", CreateNote)
	notes.GET("/:id", GetNote)
	notes.PUT("/:id", UpdateNote)
	notes.DELETE("/:id", DeleteNote)
}
