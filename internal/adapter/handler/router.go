package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router holds all handlers
type Router struct {
	healthHandler  *Health
	meetingHandler *Meeting
	metrics        http.Handler
	authMW         echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers. metrics and authMW are
// optional.
func NewRouter(healthHandler *Health, meetingHandler *Meeting, metrics http.Handler, authMW echo.MiddlewareFunc) *Router {
	return &Router{
		healthHandler:  healthHandler,
		meetingHandler: meetingHandler,
		metrics:        metrics,
		authMW:         authMW,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoints
	e.GET("/health", rt.healthHandler.Check)
	e.GET("/api/health", rt.healthHandler.Check)

	if rt.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(rt.metrics))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	if rt.authMW != nil {
		api.Use(rt.authMW)
	}
	rt.setupMeetingRoutes(api)
}

// setupMeetingRoutes configures upload and history routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	g.POST("/upload", rt.meetingHandler.Upload)
	g.GET("/meetings", rt.meetingHandler.ListMeetings)
	g.GET("/meetings/:id", rt.meetingHandler.GetMeeting)
	g.GET("/meetings/:id/sources", rt.meetingHandler.ListSources)
}
