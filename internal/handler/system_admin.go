package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/shop"
)

// SystemAdminHandler lets a SYSTEM_ADMIN search and manage every shop.
type SystemAdminHandler struct {
	Shops   ShopStore
	Timeout time.Duration
}

func NewSystemAdminHandler(shops ShopStore, timeout time.Duration) *SystemAdminHandler {
	return &SystemAdminHandler{Shops: shops, Timeout: timeout}
}

// SearchShops handles GET /v1/admin/shops. business_days and closed_days
// accept repeated or comma separated values.
func (h *SystemAdminHandler) SearchShops(c echo.Context) error {
	page, limit, err := paging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f, err := shop.ParseAdminSearch(shop.AdminSearchForm{
		ShopName:           c.QueryParam("shop_name"),
		BusinessHoursStart: c.QueryParam("business_hours_start"),
		BusinessHoursEnd:   c.QueryParam("business_hours_end"),
		BusinessDays:       queryList(c, "business_days"),
		ClosedDays:         queryList(c, "closed_days"),
	})
	if err != nil {
		return formError(c, err)
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	items, total, err := h.Shops.SearchAdmin(ctx, repository.AdminShopSearchQuery{
		Name:               f.Name,
		BusinessHoursStart: f.BusinessHoursStart,
		BusinessHoursEnd:   f.BusinessHoursEnd,
		BusinessDays:       f.BusinessDays,
		ClosedDays:         f.ClosedDays,
		Page:               page,
		Limit:              limit,
	})
	if err != nil {
		return serverError(c, "search failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":        items,
		"total":        total,
		"total_pages":  totalPages(total, limit),
		"current_page": page,
	})
}

// GetShop handles GET /v1/admin/shops/:id.
func (h *SystemAdminHandler) GetShop(c echo.Context) error {
	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	s, err := h.Shops.GetByID(ctx, c.Param("id"))
	if err != nil {
		return shopLoadError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": s})
}

// UpdateShop handles PUT /v1/admin/shops/:id. The owner is kept.
func (h *SystemAdminHandler) UpdateShop(c echo.Context) error {
	var in shop.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := shop.Validate(in)
	if err != nil {
		return formError(c, err)
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	current, err := h.Shops.GetByID(ctx, c.Param("id"))
	if err != nil {
		return shopLoadError(c, err)
	}
	s.ID, s.OwnerID = current.ID, current.OwnerID
	if err := h.Shops.Update(ctx, s); err != nil {
		return serverError(c, "failed to update shop", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": s})
}

// DeleteShop handles DELETE /v1/admin/shops/:id. The shop's reservations
// are removed with it.
func (h *SystemAdminHandler) DeleteShop(c echo.Context) error {
	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	if err := h.Shops.Delete(ctx, c.Param("id")); err != nil {
		return shopLoadError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func shopLoadError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrShopNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not found"})
	}
	return serverError(c, "failed to load shop", err)
}
