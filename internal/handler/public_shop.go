package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/shop"
)

// PublicHandler exposes unauthenticated shop browsing.
type PublicHandler struct {
	Shops   ShopStore
	Timeout time.Duration
}

func NewPublicHandler(shops ShopStore, timeout time.Duration) *PublicHandler {
	return &PublicHandler{Shops: shops, Timeout: timeout}
}

// SearchShops handles GET /v1/shops?shop_name&date&time&page&limit.
// date keeps shops open on that weekday and time keeps shops whose
// reservation window contains it.
func (h *PublicHandler) SearchShops(c echo.Context) error {
	page, limit, err := paging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	f, err := shop.ParseSearch(shop.SearchForm{
		ShopName: c.QueryParam("shop_name"),
		Date:     c.QueryParam("date"),
		Time:     c.QueryParam("time"),
	})
	if err != nil {
		return formError(c, err)
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	items, total, err := h.Shops.Search(ctx, repository.ShopSearchQuery{
		Name:    f.Name,
		Weekday: f.Weekday,
		Time:    f.Time,
		Page:    page,
		Limit:   limit,
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

// GetShop handles GET /v1/shops/:id.
func (h *PublicHandler) GetShop(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop id"})
	}
	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	s, err := h.Shops.GetByID(ctx, id)
	if err != nil {
		return shopLoadError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": s})
}
