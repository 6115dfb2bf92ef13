package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes sets up all API routes. eventMiddleware guards the event endpoint.
func RegisterRoutes(e *echo.Echo, healthHandler *HealthHandler, eventHandler *EventHandler, wsHandler *WebSocketHandler, openAPIHandler *OpenAPIHandler, eventMiddleware ...echo.MiddlewareFunc) {
	e.GET("/health", healthHandler.Health)

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", openAPIHandler.ServeOpenAPI3Spec)

	// API version 1
	api := e.Group("/api/v1")

	// Inbound events from the transport gateway
	events := api.Group("/events")
	events.Use(eventMiddleware...)
	events.POST("", eventHandler.HandleEvent)

	// Public feed stream
	api.GET("/public/ws", wsHandler.HandleWS)
}
