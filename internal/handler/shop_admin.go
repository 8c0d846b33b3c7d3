package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/shop"
)

// ShopStore is the shop persistence used by the shop admin, public and
// system admin handlers. *repository.ShopRepo satisfies it.
type ShopStore interface {
	Create(ctx context.Context, s *model.Shop) error
	GetByID(ctx context.Context, id string) (*model.Shop, error)
	GetByOwner(ctx context.Context, ownerID string) (*model.Shop, error)
	Update(ctx context.Context, s *model.Shop) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q repository.ShopSearchQuery) ([]model.Shop, int64, error)
	SearchAdmin(ctx context.Context, q repository.AdminShopSearchQuery) ([]model.Shop, int64, error)
}

// ShopReservationLister lists reservations of one shop.
type ShopReservationLister interface {
	ListByShop(ctx context.Context, shopID string, page, limit int) ([]model.ShopReservation, int64, error)
}

// ShopAdminHandler serves the endpoints a SHOP_ADMIN uses to manage the
// single shop they own.
type ShopAdminHandler struct {
	Shops        ShopStore
	Reservations ShopReservationLister
	Timeout      time.Duration
}

func NewShopAdminHandler(shops ShopStore, reservations ShopReservationLister, timeout time.Duration) *ShopAdminHandler {
	if shops == nil || reservations == nil {
		panic("nil repository passed to NewShopAdminHandler")
	}
	return &ShopAdminHandler{Shops: shops, Reservations: reservations, Timeout: timeout}
}

// GetShop handles GET /v1/shop-admin/shop.
func (h *ShopAdminHandler) GetShop(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	s, err := h.Shops.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not registered"})
		}
		return serverError(c, "failed to load shop", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": s})
}

// CreateShop handles POST /v1/shop-admin/shop. A shop admin owns at most
// one shop.
func (h *ShopAdminHandler) CreateShop(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var in shop.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := shop.Validate(in)
	if err != nil {
		return formError(c, err)
	}
	s.OwnerID = ownerID

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	if err := h.Shops.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "shop already registered"})
		}
		return serverError(c, "failed to create shop", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"shop": s})
}

// UpdateShop handles PUT /v1/shop-admin/shop.
func (h *ShopAdminHandler) UpdateShop(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
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

	current, err := h.Shops.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not registered"})
		}
		return serverError(c, "failed to load shop", err)
	}
	s.ID, s.OwnerID = current.ID, current.OwnerID
	if err := h.Shops.Update(ctx, s); err != nil {
		return serverError(c, "failed to update shop", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": s})
}

// ListReservations handles GET /v1/shop-admin/reservations?page&limit.
func (h *ShopAdminHandler) ListReservations(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, limit, err := paging(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	s, err := h.Shops.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shop not registered"})
		}
		return serverError(c, "failed to load shop", err)
	}
	items, total, err := h.Reservations.ListByShop(ctx, s.ID, page, limit)
	if err != nil {
		return serverError(c, "failed to load reservations", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":        items,
		"total":        total,
		"total_pages":  totalPages(total, limit),
		"current_page": page,
	})
}
