package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/reservation"
)

// Booker runs the reservation flow. *reservation.Service satisfies it.
type Booker interface {
	Book(ctx context.Context, userID, shopID string, in reservation.Input) (*model.Reservation, error)
}

// UserReservationLister lists reservations made by one user.
type UserReservationLister interface {
	ListByUser(ctx context.Context, userID string) ([]model.UserReservation, error)
}

// ReservationHandler serves the USER reservation endpoints.
type ReservationHandler struct {
	Booker       Booker
	Reservations UserReservationLister
	Timeout      time.Duration
}

func NewReservationHandler(b Booker, l UserReservationLister, timeout time.Duration) *ReservationHandler {
	if b == nil || l == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Booker: b, Reservations: l, Timeout: timeout}
}

// Create handles POST /v1/shops/:id/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	shopID := c.Param("id")
	if shopID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shop id"})
	}
	var in reservation.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	r, err := h.Booker.Book(ctx, userID, shopID, in)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": r})
}

// ListMine handles GET /v1/my/reservations.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()

	items, err := h.Reservations.ListByUser(ctx, userID)
	if err != nil {
		return serverError(c, "failed to load reservations", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
