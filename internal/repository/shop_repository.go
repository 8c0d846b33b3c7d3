package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/shop-reservation/internal/model"
)

const shopColumns = `id, owner_id, shop_name,
	business_hours_start, business_hours_end,
	reservation_hours_start, reservation_hours_end,
	business_days, closed_days, max_reservations_per_slot,
	created_at, updated_at`

// ShopRepo encapsulates all queries on the shops table.
type ShopRepo struct {
	db *sqlx.DB
}

// NewShopRepo constructs a ShopRepo with the provided DB handle.
func NewShopRepo(db *sqlx.DB) *ShopRepo { return &ShopRepo{db: db} }

// Create inserts s, assigning a new id. Each shop admin owns at most one
// shop; a second registration returns ErrConflict. On success s is
// re-read so timestamps and normalized TIME values are populated.
func (r *ShopRepo) Create(ctx context.Context, s *model.Shop) error {
	s.ID = uuid.NewString()
	if s.MaxReservationsPerSlot < 1 {
		s.MaxReservationsPerSlot = 1
	}
	const q = `INSERT INTO shops (id, owner_id, shop_name,
			business_hours_start, business_hours_end,
			reservation_hours_start, reservation_hours_end,
			business_days, closed_days, max_reservations_per_slot)
		VALUES (:id, :owner_id, :shop_name,
			:business_hours_start, :business_hours_end,
			:reservation_hours_start, :reservation_hours_end,
			:business_days, :closed_days, :max_reservations_per_slot)`
	if _, err := r.db.NamedExecContext(ctx, q, s); err != nil {
		if duplicateKeyIs(err, "uq_shops_owner") {
			return ErrConflict
		}
		return err
	}
	return r.reload(ctx, s)
}

// GetByID fetches a shop by its id, or ErrShopNotFound.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*model.Shop, error) {
	return r.getOne(ctx, "SELECT "+shopColumns+" FROM shops WHERE id = ?", id)
}

// GetByOwner fetches the shop owned by ownerID, or ErrShopNotFound.
func (r *ShopRepo) GetByOwner(ctx context.Context, ownerID string) (*model.Shop, error) {
	return r.getOne(ctx, "SELECT "+shopColumns+" FROM shops WHERE owner_id = ?", ownerID)
}

// Update overwrites the editable fields of the shop with s.ID. The owner
// never changes.
func (r *ShopRepo) Update(ctx context.Context, s *model.Shop) error {
	if s.MaxReservationsPerSlot < 1 {
		s.MaxReservationsPerSlot = 1
	}
	const q = `UPDATE shops SET
			shop_name = :shop_name,
			business_hours_start = :business_hours_start,
			business_hours_end = :business_hours_end,
			reservation_hours_start = :reservation_hours_start,
			reservation_hours_end = :reservation_hours_end,
			business_days = :business_days,
			closed_days = :closed_days,
			max_reservations_per_slot = :max_reservations_per_slot
		WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, q, s); err != nil {
		return err
	}
	return r.reload(ctx, s)
}

// Delete removes the shop and, through the foreign keys, its reservations.
func (r *ShopRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM shops WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShopNotFound
	}
	return nil
}

func (r *ShopRepo) reload(ctx context.Context, s *model.Shop) error {
	fresh, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

func (r *ShopRepo) getOne(ctx context.Context, q string, args ...any) (*model.Shop, error) {
	var s model.Shop
	if err := r.db.GetContext(ctx, &s, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return &s, nil
}
