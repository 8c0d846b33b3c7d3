package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/handler"
	"github.com/iliyamo/shop-reservation/internal/middleware"
	"github.com/iliyamo/shop-reservation/internal/model"
)

// RegisterShopAdmin registers SHOP_ADMIN endpoints under /v1/shop-admin.
func RegisterShopAdmin(e *echo.Echo, h *handler.ShopAdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/shop-admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleShopAdmin),
	)
	g.GET("/shop", h.GetShop)
	g.POST("/shop", h.CreateShop)
	g.PUT("/shop", h.UpdateShop)
	g.GET("/reservations", h.ListReservations)
}

// RegisterSystemAdmin registers SYSTEM_ADMIN endpoints under /v1/admin.
func RegisterSystemAdmin(e *echo.Echo, h *handler.SystemAdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSystemAdmin),
	)
	g.GET("/shops", h.SearchShops)
	g.GET("/shops/:id", h.GetShop)
	g.PUT("/shops/:id", h.UpdateShop)
	g.DELETE("/shops/:id", h.DeleteShop)
}
