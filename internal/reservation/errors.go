package reservation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies why a reservation attempt was refused. The string value
// is stable and returned to API clients as the "error" field.
type Kind string

const (
	KindInvalidInput            Kind = "invalid_input"
	KindPastDateRejected        Kind = "past_date_rejected"
	KindOutsideReservationHours Kind = "outside_reservation_hours"
	KindShopLookupFailed        Kind = "shop_lookup_failed"
	KindSlotCountFailed         Kind = "slot_count_failed"
	KindSlotFull                Kind = "slot_full"
	KindDuplicateReservation    Kind = "duplicate_reservation"
	KindCreationFailed          Kind = "creation_failed"
)

// Error is the only error type Book and Writer.Create return. Message is
// safe to show to end users; the storage error that caused it, if any, is
// kept for logging and reachable through errors.Unwrap.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field messages for KindInvalidInput.
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.Kind == KindInvalidInput && len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same Kind, so callers can write
// errors.Is(err, reservation.ErrSlotFull).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons. Their messages are the ones
// returned to users, except OutsideReservationHours which embeds the
// shop's window.
var (
	ErrInvalidInput            = &Error{Kind: KindInvalidInput, Message: "the reservation request is invalid"}
	ErrPastDateRejected        = &Error{Kind: KindPastDateRejected, Message: "reservations cannot be made for past dates"}
	ErrOutsideReservationHours = &Error{Kind: KindOutsideReservationHours, Message: "the requested time is outside reservation hours"}
	ErrShopLookupFailed        = &Error{Kind: KindShopLookupFailed, Message: "failed to load shop information"}
	ErrSlotCountFailed         = &Error{Kind: KindSlotCountFailed, Message: "failed to check the reservation count"}
	ErrSlotFull                = &Error{Kind: KindSlotFull, Message: "this time slot is fully booked, please choose another slot"}
	ErrDuplicateReservation    = &Error{Kind: KindDuplicateReservation, Message: "you already have a reservation for this date and time"}
	ErrCreationFailed          = &Error{Kind: KindCreationFailed, Message: "failed to create the reservation"}
)

// fail copies a sentinel and attaches the underlying cause.
func fail(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, cause: cause}
}

// Storage errors a SlotStore implementation must return so the writer
// can tell them apart from generic failures.
var (
	ErrShopMissing     = errors.New("shop not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
)
