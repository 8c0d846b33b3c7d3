package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/repository"
)

func TestAdminSearchShops(t *testing.T) {
	var got repository.AdminShopSearchQuery
	shops := &fakeShops{searchAdmin: func(_ context.Context, q repository.AdminShopSearchQuery) ([]model.Shop, int64, error) {
		got = q
		return nil, 0, nil
	}}
	h := NewSystemAdminHandler(shops, 0)

	target := "/v1/admin/shops?business_hours_start=09:00&business_hours_end=18:00&business_days=mon,tue&closed_days=sun&limit=5"
	rec := call(h.SearchShops, http.MethodGet, target, "", "admin-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body)
	}
	if got.BusinessHoursStart != "09:00:00" || got.BusinessHoursEnd != "18:00:00" ||
		len(got.BusinessDays) != 2 || len(got.ClosedDays) != 1 || got.Limit != 5 {
		t.Fatalf("query = %+v", got)
	}
}

func TestAdminSearchShopsRejectsBadForm(t *testing.T) {
	h := NewSystemAdminHandler(&fakeShops{}, 0)
	for _, target := range []string{
		"/v1/admin/shops?business_hours_start=09:00",
		"/v1/admin/shops?business_hours_start=18:00&business_hours_end=09:00",
		"/v1/admin/shops?business_days=mon&closed_days=mon",
	} {
		if rec := call(h.SearchShops, http.MethodGet, target, "", "admin-1"); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", target, rec.Code)
		}
	}
}

func TestAdminUpdateAndDeleteShop(t *testing.T) {
	var updated *model.Shop
	deleted := ""
	shops := &fakeShops{
		getByID: func(_ context.Context, id string) (*model.Shop, error) {
			if id != "shop-1" {
				return nil, repository.ErrShopNotFound
			}
			return sampleShop(), nil
		},
		update: func(_ context.Context, s *model.Shop) error {
			updated = s
			return nil
		},
		deleteFn: func(_ context.Context, id string) error {
			if id != "shop-1" {
				return repository.ErrShopNotFound
			}
			deleted = id
			return nil
		},
	}
	h := NewSystemAdminHandler(shops, 0)

	if rec := call(h.UpdateShop, http.MethodPut, "/", shopBody, "admin-1", "id", "shop-1"); rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body)
	}
	if updated.OwnerID != "owner-1" || updated.MaxReservationsPerSlot != 3 {
		t.Fatalf("updated = %+v", updated)
	}
	if rec := call(h.UpdateShop, http.MethodPut, "/", shopBody, "admin-1", "id", "missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("update missing status = %d", rec.Code)
	}
	if rec := call(h.DeleteShop, http.MethodDelete, "/", "", "admin-1", "id", "shop-1"); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if deleted != "shop-1" {
		t.Fatalf("deleted = %q", deleted)
	}
	if rec := call(h.DeleteShop, http.MethodDelete, "/", "", "admin-1", "id", "missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d", rec.Code)
	}
	shops.deleteFn = func(context.Context, string) error { return errBoom }
	if rec := call(h.DeleteShop, http.MethodDelete, "/", "", "admin-1", "id", "shop-1"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("delete failure status = %d", rec.Code)
	}
}
