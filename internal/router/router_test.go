package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/config"
	"github.com/iliyamo/shop-reservation/internal/handler"
	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/repository"
	"github.com/iliyamo/shop-reservation/internal/utils"
)

const secret = "router-secret"

// noShops is a ShopStore with no shops in it.
type noShops struct{}

func (noShops) Create(context.Context, *model.Shop) error { return nil }
func (noShops) GetByID(context.Context, string) (*model.Shop, error) {
	return nil, repository.ErrShopNotFound
}
func (noShops) GetByOwner(context.Context, string) (*model.Shop, error) {
	return nil, repository.ErrShopNotFound
}
func (noShops) Update(context.Context, *model.Shop) error { return nil }
func (noShops) Delete(context.Context, string) error      { return repository.ErrShopNotFound }
func (noShops) Search(context.Context, repository.ShopSearchQuery) ([]model.Shop, int64, error) {
	return []model.Shop{}, 0, nil
}
func (noShops) SearchAdmin(context.Context, repository.AdminShopSearchQuery) ([]model.Shop, int64, error) {
	return []model.Shop{}, 0, nil
}
func (noShops) ListByShop(context.Context, string, int, int) ([]model.ShopReservation, int64, error) {
	return nil, 0, nil
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, "user-1", "taro", role, 5)
	if err != nil {
		t.Fatal(err)
	}
	return tok.Token
}

func newServer() *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, nil)
	RegisterPublic(e, handler.NewPublicHandler(noShops{}, 0), nil)
	RegisterShopAdmin(e, handler.NewShopAdminHandler(noShops{}, noShops{}, 0), secret)
	RegisterSystemAdmin(e, handler.NewSystemAdminHandler(noShops{}, 0), secret)
	return e
}

func do(e *echo.Echo, method, target, bearer string) int {
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRoleProtectedRoutes(t *testing.T) {
	e := newServer()
	tests := []struct {
		method, target, role string
		want                 int
	}{
		{http.MethodGet, "/v1/shop-admin/shop", "", http.StatusUnauthorized},
		{http.MethodGet, "/v1/shop-admin/shop", model.RoleUser, http.StatusForbidden},
		{http.MethodGet, "/v1/shop-admin/shop", model.RoleShopAdmin, http.StatusNotFound},
		{http.MethodGet, "/v1/admin/shops", model.RoleShopAdmin, http.StatusForbidden},
		{http.MethodGet, "/v1/admin/shops", model.RoleSystemAdmin, http.StatusOK},
		{http.MethodDelete, "/v1/admin/shops/x", model.RoleSystemAdmin, http.StatusNotFound},
	}
	for _, tc := range tests {
		bearer := ""
		if tc.role != "" {
			bearer = token(t, tc.role)
		}
		if got := do(e, tc.method, tc.target, bearer); got != tc.want {
			t.Errorf("%s %s as %q: got %d, want %d", tc.method, tc.target, tc.role, got, tc.want)
		}
	}
}

func TestPublicRoutes(t *testing.T) {
	e := newServer()
	if got := do(e, http.MethodGet, "/healthz", ""); got != http.StatusOK {
		t.Fatalf("healthz: %d", got)
	}
	if got := do(e, http.MethodGet, "/v1/shops?shop_name=cafe", ""); got != http.StatusOK {
		t.Fatalf("search: %d", got)
	}
	if got := do(e, http.MethodGet, "/v1/shops/abc", ""); got != http.StatusNotFound {
		t.Fatalf("get: %d", got)
	}
}

func TestSystemAdminSignupGate(t *testing.T) {
	const target = "/v1/auth/system-admin/register"
	tests := []struct {
		enabled bool
		want    int
	}{
		{false, http.StatusNotFound},
		// An empty body reaches the handler and fails validation.
		{true, http.StatusBadRequest},
	}
	for _, tc := range tests {
		e := echo.New()
		a := handler.NewAuthHandler(config.Config{SystemAdminSignup: tc.enabled}, nil, nil)
		RegisterAuth(e, a, secret, nil)
		if got := do(e, http.MethodPost, target, ""); got != tc.want {
			t.Errorf("enabled=%v: got %d, want %d", tc.enabled, got, tc.want)
		}
		if got := do(e, http.MethodPost, "/v1/auth/register", ""); got != http.StatusBadRequest {
			t.Errorf("enabled=%v: user register got %d", tc.enabled, got)
		}
	}
}
