package reservation

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/shop-reservation/internal/model"
)

// fakeStore is an in-memory SlotStore. LockShop takes a per-shop mutex
// that is released on Commit or Rollback, mirroring SELECT ... FOR UPDATE.
type fakeStore struct {
	mu       sync.Mutex
	locks    map[string]*sync.Mutex
	capacity map[string]int
	rows     []model.Reservation

	beginErr  error
	lockErr   error
	countErr  error
	insertErr error

	lockCalls   int
	countCalls  int
	insertCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{locks: map[string]*sync.Mutex{}, capacity: map[string]int{}}
}

func (s *fakeStore) addShop(id string, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacity[id] = capacity
	s.locks[id] = &sync.Mutex{}
}

func (s *fakeStore) addActive(shopID, userID, date, clock string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, model.Reservation{
		ID: fmt.Sprintf("seed-%d", len(s.rows)), UserID: userID, ShopID: shopID,
		ReservationDate: date, ReservationTime: clock, Status: model.ReservationActive,
	})
}

func (s *fakeStore) activeCount(slot Slot) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.ShopID == slot.ShopID && r.ReservationDate == slot.Date && r.ReservationTime == slot.Time && r.Status == model.ReservationActive {
			n++
		}
	}
	return n
}

func (s *fakeStore) BeginSlotTx(ctx context.Context) (SlotTx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &fakeTx{s: s}, nil
}

type fakeTx struct {
	s       *fakeStore
	held    *sync.Mutex
	pending []model.Reservation
}

func (t *fakeTx) LockShop(ctx context.Context, shopID string) (int, error) {
	t.s.mu.Lock()
	t.s.lockCalls++
	lockErr := t.s.lockErr
	capacity, ok := t.s.capacity[shopID]
	l := t.s.locks[shopID]
	t.s.mu.Unlock()
	if lockErr != nil {
		return 0, lockErr
	}
	if !ok {
		return 0, fmt.Errorf("lock shop %s: %w", shopID, ErrShopMissing)
	}
	l.Lock()
	t.held = l
	return capacity, nil
}

func (t *fakeTx) CountActive(ctx context.Context, slot Slot) (int, error) {
	t.s.mu.Lock()
	t.s.countCalls++
	err := t.s.countErr
	t.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return t.s.activeCount(slot), nil
}

func (t *fakeTx) Insert(ctx context.Context, r *model.Reservation) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.insertCalls++
	if t.s.insertErr != nil {
		return t.s.insertErr
	}
	for _, row := range t.s.rows {
		if row.Status == model.ReservationActive && row.UserID == r.UserID && row.ShopID == r.ShopID &&
			row.ReservationDate == r.ReservationDate && row.ReservationTime == r.ReservationTime {
			return fmt.Errorf("insert reservation: %w", ErrUniqueViolation)
		}
	}
	t.pending = append(t.pending, *r)
	return nil
}

func (t *fakeTx) Commit() error {
	t.s.mu.Lock()
	t.s.rows = append(t.s.rows, t.pending...)
	t.s.mu.Unlock()
	t.release()
	return nil
}

func (t *fakeTx) Rollback() error {
	t.pending = nil
	t.release()
	return nil
}

func (t *fakeTx) release() {
	if t.held != nil {
		t.held.Unlock()
		t.held = nil
	}
}
