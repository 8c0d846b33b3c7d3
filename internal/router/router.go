// Package router registers the HTTP routes of the API on an echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/handler"
	"github.com/iliyamo/shop-reservation/internal/middleware"
	"github.com/iliyamo/shop-reservation/internal/model"
)

// RegisterRoutes registers the unauthenticated probes. /readyz pings db.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterMetrics exposes h (usually the Prometheus handler) at /metrics.
func RegisterMetrics(e *echo.Echo, h http.Handler) {
	e.GET("/metrics", echo.WrapHandler(h))
}

// RegisterAuth registers sign-up, login and token routes under /v1/auth
// plus the profile endpoints under /v1/me. limit guards the credential
// endpoints and may be nil. System admin sign-up is only mounted when
// a.Cfg.SystemAdminSignup is set.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	var mw []echo.MiddlewareFunc
	if limit != nil {
		mw = append(mw, limit)
	}
	g := e.Group("/v1/auth", mw...)
	g.POST("/register", a.Register)
	g.POST("/shop-admin/register", a.RegisterShopAdmin)
	if a.Cfg.SystemAdminSignup {
		g.POST("/system-admin/register", a.RegisterSystemAdmin)
	}
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout parses the bearer itself so an expired access token can
	// still end a session with its refresh token.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	me := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleShopAdmin, model.RoleSystemAdmin),
	}
	e.GET("/v1/me", a.Me, me...)
	e.PUT("/v1/me", a.UpdateMe, me...)
}

// RegisterPublic registers guest shop browsing. cache wraps the search
// endpoint and may be nil.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/shops", p.SearchShops, cache)
	} else {
		e.GET("/v1/shops", p.SearchShops)
	}
	e.GET("/v1/shops/:id", p.GetShop)
}
