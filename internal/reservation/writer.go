package reservation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/shop-reservation/internal/model"
)

// Slot identifies one bookable time: a shop, a date and a start time in
// HH:MM:SS form.
type Slot struct {
	ShopID string
	Date   string
	Time   string
}

// SlotStore opens the transactions the writer books inside.
type SlotStore interface {
	BeginSlotTx(ctx context.Context) (SlotTx, error)
}

// SlotTx is the narrow view of storage the writer needs. LockShop must
// hold a lock on the shop until Commit or Rollback so that concurrent
// bookings for the same shop are serialized; it returns ErrShopMissing
// when the shop does not exist. Insert returns an error wrapping
// ErrUniqueViolation when the storage uniqueness backstop fires.
type SlotTx interface {
	LockShop(ctx context.Context, shopID string) (maxPerSlot int, err error)
	CountActive(ctx context.Context, slot Slot) (int, error)
	Insert(ctx context.Context, r *model.Reservation) error
	Commit() error
	Rollback() error
}

// Writer enforces the per-slot capacity and persists new reservations.
type Writer struct {
	store SlotStore
	log   *slog.Logger
	newID func() string
	now   func() time.Time
}

// NewWriter panics on a nil store.
func NewWriter(store SlotStore, log *slog.Logger) *Writer {
	if store == nil {
		panic("reservation: nil SlotStore")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Writer{store: store, log: log, newID: uuid.NewString, now: time.Now}
}

// Create books req for userID at shopID. The shop row is locked for the
// whole count-compare-insert sequence, so the number of active
// reservations in a slot never exceeds the shop's capacity. Every failure
// is returned as an *Error; storage detail is logged, not returned.
func (w *Writer) Create(ctx context.Context, userID, shopID string, req Request) (*model.Reservation, error) {
	log := w.log.With("shop_id", shopID, "user_id", userID, "date", req.Date, "time", req.Time)

	tx, err := w.store.BeginSlotTx(ctx)
	if err != nil {
		log.Error("reservation: begin transaction failed", "error", err)
		return nil, fail(ErrCreationFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	capacity, err := tx.LockShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, ErrShopMissing) {
			log.Warn("reservation: shop not found")
		} else {
			log.Error("reservation: shop lookup failed", "error", err)
		}
		return nil, fail(ErrShopLookupFailed, err)
	}
	if capacity < 1 {
		capacity = 1
	}

	slot := Slot{ShopID: shopID, Date: req.Date, Time: storedTime(req.Time)}
	count, err := tx.CountActive(ctx, slot)
	if err != nil {
		log.Error("reservation: slot count failed", "error", err)
		return nil, fail(ErrSlotCountFailed, err)
	}
	if count >= capacity {
		log.Info("reservation: slot full", "count", count, "capacity", capacity)
		return nil, fail(ErrSlotFull, nil)
	}

	now := w.now().UTC()
	r := &model.Reservation{
		ID:              w.newID(),
		UserID:          userID,
		ShopID:          shopID,
		ReservationDate: slot.Date,
		ReservationTime: slot.Time,
		ReserverName:    req.ReserverName,
		Comment:         req.Comment,
		Status:          model.ReservationActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.Insert(ctx, r); err != nil {
		return nil, w.insertFailure(log, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, w.insertFailure(log, err)
	}
	committed = true
	return r, nil
}

func (w *Writer) insertFailure(log *slog.Logger, err error) error {
	if errors.Is(err, ErrUniqueViolation) {
		log.Info("reservation: duplicate reservation", "error", err)
		return fail(ErrDuplicateReservation, err)
	}
	log.Error("reservation: insert failed", "error", err)
	return fail(ErrCreationFailed, err)
}
