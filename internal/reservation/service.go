// Package reservation books time slots at shops. A request goes through
// three stages: ParseInput checks its structure, CheckSchedule rejects
// past dates and times outside the shop's reservation window, and Writer
// enforces the per-slot capacity while inserting.
package reservation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iliyamo/shop-reservation/internal/model"
	"github.com/iliyamo/shop-reservation/internal/queue"
)

// ShopReader loads the shop a reservation targets.
type ShopReader interface {
	GetByID(ctx context.Context, id string) (*model.Shop, error)
}

// Publisher receives an event for every committed reservation.
type Publisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

// Recorder observes the outcome of each booking attempt.
type Recorder interface {
	ObserveReservation(outcome string, elapsed time.Duration)
}

// Service ties the three stages together for the HTTP layer.
type Service struct {
	shops     ShopReader
	writer    *Writer
	publisher Publisher
	recorder  Recorder
	now       func() time.Time
	loc       *time.Location
	log       *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher publishes a ReservationCreatedEvent after each commit.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

// WithRecorder reports outcomes and latencies, e.g. to Prometheus.
func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithLocation sets the time zone that "today" is computed in.
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.loc = loc } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// NewService wires a service over the given shop reader and slot store.
func NewService(shops ShopReader, store SlotStore, opts ...Option) *Service {
	s := &Service{shops: shops, now: time.Now, loc: time.UTC, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	s.writer = NewWriter(store, s.log)
	return s
}

// Book validates in and reserves the slot for userID. The returned error
// is always an *Error.
func (s *Service) Book(ctx context.Context, userID, shopID string, in Input) (*model.Reservation, error) {
	started := time.Now()
	r, err := s.book(ctx, userID, shopID, in)
	if s.recorder != nil {
		s.recorder.ObserveReservation(outcome(err), time.Since(started))
	}
	return r, err
}

func (s *Service) book(ctx context.Context, userID, shopID string, in Input) (*model.Reservation, error) {
	req, err := ParseInput(in)
	if err != nil {
		return nil, err
	}

	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		s.log.Warn("reservation: shop read failed", "shop_id", shopID, "error", err)
		return nil, fail(ErrShopLookupFailed, err)
	}

	hours := Hours{Start: shop.ReservationHoursStart, End: shop.ReservationHoursEnd}
	if err := CheckSchedule(req.Date, req.Time, hours, s.now().In(s.loc)); err != nil {
		return nil, err
	}

	r, err := s.writer.Create(ctx, userID, shopID, req)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, shop, r)
	return r, nil
}

// publish is best effort; the reservation is already committed.
func (s *Service) publish(ctx context.Context, shop *model.Shop, r *model.Reservation) {
	if s.publisher == nil {
		return
	}
	ev := queue.ReservationCreatedEvent{
		ReservationID:   r.ID,
		UserID:          r.UserID,
		ShopID:          r.ShopID,
		ShopName:        shop.ShopName,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		ReserverName:    r.ReserverName,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if err := s.publisher.PublishReservationCreated(ctx, ev); err != nil {
		s.log.Warn("reservation: publish event failed", "reservation_id", r.ID, "error", err)
	}
}

func outcome(err error) string {
	if err == nil {
		return "created"
	}
	var e *Error
	if errors.As(err, &e) {
		return string(e.Kind)
	}
	return string(KindCreationFailed)
}
