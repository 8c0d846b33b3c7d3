package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hours is a shop's reservation-acceptance window. Either bound may be
// written as HH:MM or HH:MM:SS; both bounds are inclusive.
type Hours struct {
	Start string
	End   string
}

// CheckSchedule rejects a request whose date lies before the day of now
// (in now's location) or whose time falls outside hours. It performs no
// I/O and depends only on its arguments.
func CheckSchedule(date, clock string, hours Hours, now time.Time) error {
	day, err := time.ParseInLocation(time.DateOnly, date, now.Location())
	if err != nil {
		return fail(ErrInvalidInput, err)
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return fail(ErrPastDateRejected, nil)
	}

	at, err := minutesOfDay(clock)
	if err != nil {
		return fail(ErrInvalidInput, err)
	}
	start, err := minutesOfDay(hours.Start)
	if err != nil {
		return fail(ErrShopLookupFailed, fmt.Errorf("reservation_hours_start: %w", err))
	}
	end, err := minutesOfDay(hours.End)
	if err != nil {
		return fail(ErrShopLookupFailed, fmt.Errorf("reservation_hours_end: %w", err))
	}
	if at < start || at > end {
		return &Error{
			Kind:    KindOutsideReservationHours,
			Message: fmt.Sprintf("the requested time is outside reservation hours (reservation hours: %s-%s)", hhmm(hours.Start), hhmm(hours.End)),
		}
	}
	return nil
}

// minutesOfDay converts HH:MM or HH:MM:SS to minutes since midnight.
// Seconds are ignored.
func minutesOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// hhmm strips a trailing seconds component.
func hhmm(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// storedTime converts HH:MM to the HH:MM:SS form reservations are keyed by.
func storedTime(clock string) string {
	if len(clock) == 5 {
		return clock + ":00"
	}
	return clock
}
