package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/middleware"
	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/reservation"
	"github.com/iliyamo/shop-reservation/internal/shop"
)

const (
	defaultDBTimeout = 5 * time.Second
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// dbContext bounds the database work of one request. A zero d uses
// defaultDBTimeout.
func dbContext(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultDBTimeout
	}
	return context.WithTimeout(c.Request().Context(), d)
}

// getUserID returns the subject stored by middleware.JWTAuth.
func getUserID(c echo.Context) (string, error) {
	if id, ok := c.Get(middleware.CtxUserID).(string); ok && id != "" {
		return id, nil
	}
	return "", errors.New("invalid user_id in context")
}

// paging reads ?page and ?limit. page defaults to 1 and limit to 20;
// limit may not exceed 100.
func paging(c echo.Context) (page, limit int, err error) {
	page, limit = 1, defaultPageLimit
	if v := strings.TrimSpace(c.QueryParam("page")); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return 0, 0, errors.New("limit must be between 1 and 100")
		}
	}
	return page, limit, nil
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// queryList reads a repeated or comma separated query parameter:
// ?days=mon&days=tue and ?days=mon,tue are equivalent.
func queryList(c echo.Context, name string) []string {
	var out []string
	for _, v := range c.QueryParams()[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// reservationStatus maps a reservation error kind to an HTTP status.
// reservationError answers 500 instead of 404 when a shop read failed for
// any reason other than the shop being absent.
func reservationStatus(k reservation.Kind) int {
	switch k {
	case reservation.KindInvalidInput:
		return http.StatusBadRequest
	case reservation.KindPastDateRejected, reservation.KindOutsideReservationHours:
		return http.StatusUnprocessableEntity
	case reservation.KindShopLookupFailed:
		return http.StatusNotFound
	case reservation.KindSlotFull, reservation.KindDuplicateReservation:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// shopMissing reports whether a ShopLookupFailed error was caused by an
// absent shop rather than a failed read.
func shopMissing(err error) bool {
	return errors.Is(err, repository.ErrShopNotFound) || errors.Is(err, reservation.ErrShopMissing)
}

func reservationError(c echo.Context, err error) error {
	var re *reservation.Error
	if !errors.As(err, &re) {
		return serverError(c, "reservation failed", err)
	}
	if re.Kind == reservation.KindInvalidInput && len(re.Fields) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   string(re.Kind),
			"message": re.Message,
			"errors":  re.Fields,
		})
	}
	status := reservationStatus(re.Kind)
	if re.Kind == reservation.KindShopLookupFailed && !shopMissing(err) {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logError(c, "reservation failed", err)
	}
	return c.JSON(status, echo.Map{
		"error":   string(re.Kind),
		"message": re.Message,
	})
}

// serverError logs err with the request's identity and answers 500 with
// msg. The client never sees err.
func serverError(c echo.Context, msg string, err error) error {
	logError(c, msg, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}

func logError(c echo.Context, msg string, err error) {
	req := c.Request()
	attrs := []any{
		"error", err,
		"method", req.Method,
		"path", c.Path(),
	}
	if rid, ok := c.Get(middleware.CtxRequestID).(string); ok {
		attrs = append(attrs, "request_id", rid)
	}
	if uid, ok := c.Get(middleware.CtxUserID).(string); ok {
		attrs = append(attrs, "user_id", uid)
	}
	slog.ErrorContext(req.Context(), "handler: "+msg, attrs...)
}

// formError answers 400 with the per-field messages of a shop form, or
// 400 with a generic message for any other error.
func formError(c echo.Context, err error) error {
	var fe shop.FieldErrors
	if errors.As(err, &fe) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "errors": fe})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}
