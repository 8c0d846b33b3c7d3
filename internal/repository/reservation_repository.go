package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/reservation"
)

// ReservationRepo provides the reservation queries and the slot
// transaction the booking writer runs in. reservation_date is read back
// as YYYY-MM-DD and reservation_time as HH:MM:SS.
type ReservationRepo struct {
	db *sqlx.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sqlx.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.user_id, r.shop_id,
	DATE_FORMAT(r.reservation_date, '%Y-%m-%d') AS reservation_date,
	r.reservation_time, r.reserver_name, r.comment, r.status,
	r.created_at, r.updated_at`

// BeginSlotTx opens a transaction for one booking attempt.
func (r *ReservationRepo) BeginSlotTx(ctx context.Context) (reservation.SlotTx, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &slotTx{tx: tx}, nil
}

// slotTx implements reservation.SlotTx on a sqlx transaction.
type slotTx struct {
	tx *sqlx.Tx
}

// LockShop takes a row lock on the shop with SELECT ... FOR UPDATE. Every
// booking for the shop passes through this lock, so the count and insert
// that follow cannot interleave with another booking's.
func (t *slotTx) LockShop(ctx context.Context, shopID string) (int, error) {
	var capacity int
	err := t.tx.GetContext(ctx, &capacity,
		"SELECT max_reservations_per_slot FROM shops WHERE id = ? FOR UPDATE", shopID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("lock shop %s: %w", shopID, reservation.ErrShopMissing)
		}
		return 0, fmt.Errorf("lock shop %s: %w", shopID, err)
	}
	return capacity, nil
}

// CountActive counts active reservations in slot.
func (t *slotTx) CountActive(ctx context.Context, slot reservation.Slot) (int, error) {
	var n int
	err := t.tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM reservations
		WHERE shop_id = ? AND reservation_date = ? AND reservation_time = ? AND status = ?`,
		slot.ShopID, slot.Date, slot.Time, model.ReservationActive)
	if err != nil {
		return 0, fmt.Errorf("count active reservations: %w", err)
	}
	return n, nil
}

// Insert writes res. A hit on uq_reservations_user_slot (the same user
// already holds an active reservation for the slot) is reported as
// reservation.ErrUniqueViolation.
func (t *slotTx) Insert(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
			(id, user_id, shop_id, reservation_date, reservation_time, reserver_name, comment, status, created_at, updated_at)
		VALUES
			(:id, :user_id, :shop_id, :reservation_date, :reservation_time, :reserver_name, :comment, :status, :created_at, :updated_at)`
	if _, err := t.tx.NamedExecContext(ctx, q, res); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("insert reservation: %w: %v", reservation.ErrUniqueViolation, err)
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (t *slotTx) Commit() error   { return t.tx.Commit() }
func (t *slotTx) Rollback() error { return t.tx.Rollback() }

// ListByUser returns the user's reservations joined with shop details,
// latest slot first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID string) ([]model.UserReservation, error) {
	q := `SELECT ` + reservationColumns + `,
			s.shop_name, s.business_hours_start, s.business_hours_end
		FROM reservations r
		JOIN shops s ON s.id = r.shop_id
		WHERE r.user_id = ?
		ORDER BY r.reservation_date DESC, r.reservation_time DESC`
	out := []model.UserReservation{}
	if err := r.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByShop returns one page of the shop's reservations ordered by slot,
// each with the booking user's name and the slot's active count and
// capacity, together with the total number of reservations.
func (r *ReservationRepo) ListByShop(ctx context.Context, shopID string, page, limit int) ([]model.ShopReservation, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reservations WHERE shop_id = ?", shopID); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + reservationColumns + `,
			u.user_name,
			(SELECT COUNT(*) FROM reservations r2
				WHERE r2.shop_id = r.shop_id
				  AND r2.reservation_date = r.reservation_date
				  AND r2.reservation_time = r.reservation_time
				  AND r2.status = 'active') AS slot_count,
			s.max_reservations_per_slot AS slot_max
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN shops s ON s.id = r.shop_id
		WHERE r.shop_id = ?
		ORDER BY r.reservation_date ASC, r.reservation_time ASC, r.created_at ASC
		LIMIT ? OFFSET ?`
	out := make([]model.ShopReservation, 0, limit)
	if err := r.db.SelectContext(ctx, &out, q, shopID, limit, (page-1)*limit); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
