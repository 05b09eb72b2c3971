package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/quickshow/internal/handler"    // handlers for health and show administration
	"github.com/iliyamo/quickshow/internal/middleware" // JWT authentication and role enforcement
)

// AdminRole is the JWT role allowed on the show administration routes.
const AdminRole = "ADMIN"

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterShows mounts the show administration API under /api/show.  Every
// route requires an ADMIN access token signed with jwtSecret.  limit runs
// after authentication so user-keyed strategies see the token subject.
// cache wraps the now-playing listing only; adding shows is never cached.
// Either middleware may be nil.
func RegisterShows(e *echo.Echo, h *handler.ShowHandler, jwtSecret string, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/api/show")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(AdminRole))
	if limit != nil {
		g.Use(limit)
	}

	if cache != nil {
		g.GET("/now-playing", h.NowPlaying, cache)
	} else {
		g.GET("/now-playing", h.NowPlaying)
	}
	g.POST("/add", h.AddShow)
}
