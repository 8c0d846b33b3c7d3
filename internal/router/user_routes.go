package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/handler"
	"github.com/iliyamo/shop-reservation/internal/middleware"
	"github.com/iliyamo/shop-reservation/internal/model"
)

// RegisterUser registers the USER reservation endpoints. Booking shares
// the /v1/shops prefix with the public routes, so the middleware is
// attached per route rather than through a group.
func RegisterUser(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser),
	}
	book := mw
	if limit != nil {
		book = append(append([]echo.MiddlewareFunc{}, mw...), limit)
	}
	e.POST("/v1/shops/:id/reservations", h.Create, book...)
	e.GET("/v1/my/reservations", h.ListMine, mw...)
}
