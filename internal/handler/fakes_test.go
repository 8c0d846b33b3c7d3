package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/middleware"
	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/reservation"
)

var errBoom = errors.New("boom")

type fakeShops struct {
	create      func(ctx context.Context, s *model.Shop) error
	getByID     func(ctx context.Context, id string) (*model.Shop, error)
	getByOwner  func(ctx context.Context, ownerID string) (*model.Shop, error)
	update      func(ctx context.Context, s *model.Shop) error
	deleteFn    func(ctx context.Context, id string) error
	search      func(ctx context.Context, q repository.ShopSearchQuery) ([]model.Shop, int64, error)
	searchAdmin func(ctx context.Context, q repository.AdminShopSearchQuery) ([]model.Shop, int64, error)
}

func (f *fakeShops) Create(ctx context.Context, s *model.Shop) error { return f.create(ctx, s) }
func (f *fakeShops) GetByID(ctx context.Context, id string) (*model.Shop, error) {
	return f.getByID(ctx, id)
}
func (f *fakeShops) GetByOwner(ctx context.Context, ownerID string) (*model.Shop, error) {
	return f.getByOwner(ctx, ownerID)
}
func (f *fakeShops) Update(ctx context.Context, s *model.Shop) error { return f.update(ctx, s) }
func (f *fakeShops) Delete(ctx context.Context, id string) error     { return f.deleteFn(ctx, id) }
func (f *fakeShops) Search(ctx context.Context, q repository.ShopSearchQuery) ([]model.Shop, int64, error) {
	return f.search(ctx, q)
}
func (f *fakeShops) SearchAdmin(ctx context.Context, q repository.AdminShopSearchQuery) ([]model.Shop, int64, error) {
	return f.searchAdmin(ctx, q)
}

type fakeReservations struct {
	listByShop func(ctx context.Context, shopID string, page, limit int) ([]model.ShopReservation, int64, error)
	listByUser func(ctx context.Context, userID string) ([]model.UserReservation, error)
}

func (f *fakeReservations) ListByShop(ctx context.Context, shopID string, page, limit int) ([]model.ShopReservation, int64, error) {
	return f.listByShop(ctx, shopID, page, limit)
}
func (f *fakeReservations) ListByUser(ctx context.Context, userID string) ([]model.UserReservation, error) {
	return f.listByUser(ctx, userID)
}

type bookerFunc func(ctx context.Context, userID, shopID string, in reservation.Input) (*model.Reservation, error)

func (f bookerFunc) Book(ctx context.Context, userID, shopID string, in reservation.Input) (*model.Reservation, error) {
	return f(ctx, userID, shopID, in)
}

type fakeUsers struct {
	create        func(ctx context.Context, userName, email, password, role string, cost int) (*model.User, error)
	getByLogin    func(ctx context.Context, identifier string) (*model.User, error)
	getByID       func(ctx context.Context, id string) (*model.User, error)
	updateProfile func(ctx context.Context, id, userName, email string) (*model.User, error)
}

func (f *fakeUsers) Create(ctx context.Context, userName, email, password, role string, cost int) (*model.User, error) {
	return f.create(ctx, userName, email, password, role, cost)
}
func (f *fakeUsers) GetByLogin(ctx context.Context, identifier string) (*model.User, error) {
	return f.getByLogin(ctx, identifier)
}
func (f *fakeUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	return f.getByID(ctx, id)
}
func (f *fakeUsers) UpdateProfile(ctx context.Context, id, userName, email string) (*model.User, error) {
	return f.updateProfile(ctx, id, userName, email)
}

// memTokens keeps refresh token hashes in memory.
type memTokens struct {
	owner   map[string]string
	revoked map[string]bool
}

func newMemTokens() *memTokens {
	return &memTokens{owner: map[string]string{}, revoked: map[string]bool{}}
}

func (m *memTokens) StoreRefresh(_ context.Context, userID, hash string, _ time.Time) error {
	m.owner[hash] = userID
	return nil
}
func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (string, error) {
	uid, ok := m.owner[hash]
	if !ok || m.revoked[hash] {
		return "", errors.New("not found")
	}
	return uid, nil
}
func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	m.revoked[hash] = true
	return nil
}
func (m *memTokens) RevokeAllForUser(_ context.Context, userID string) error {
	for h, uid := range m.owner {
		if uid == userID {
			m.revoked[h] = true
		}
	}
	return nil
}

// call runs h against a request, optionally as an authenticated user.
func call(h echo.HandlerFunc, method, target, body, userID string, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.CtxUserID, userID)
	}
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func sampleShop() *model.Shop {
	return &model.Shop{
		ID:                     "shop-1",
		OwnerID:                "owner-1",
		ShopName:               "Cafe",
		BusinessHoursStart:     "09:00:00",
		BusinessHoursEnd:       "21:00:00",
		ReservationHoursStart:  "10:00:00",
		ReservationHoursEnd:    "20:00:00",
		BusinessDays:           model.Weekdays{"mon", "tue"},
		ClosedDays:             model.Weekdays{"sun"},
		MaxReservationsPerSlot: 2,
	}
}
