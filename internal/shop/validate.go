// Package shop validates shop profiles and shop search forms.
package shop

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/shop-reservation/internal/model"
)

const maxShopNameLen = 100

// FieldErrors maps a form field to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid shop data: " + strings.Join(parts, "; ")
}

// Input is the JSON body used to register or edit a shop. Hours accept
// HH:MM or HH:MM:SS. MaxReservationsPerSlot defaults to 1 when omitted.
type Input struct {
	ShopName               string   `json:"shop_name"`
	BusinessHoursStart     string   `json:"business_hours_start"`
	BusinessHoursEnd       string   `json:"business_hours_end"`
	ReservationHoursStart  string   `json:"reservation_hours_start"`
	ReservationHoursEnd    string   `json:"reservation_hours_end"`
	BusinessDays           []string `json:"business_days"`
	ClosedDays             []string `json:"closed_days"`
	MaxReservationsPerSlot *int     `json:"max_reservations_per_slot"`
}

// Validate checks in and returns a shop with normalized values: trimmed
// name, HH:MM:SS hours and weekday lists in Sunday-first order. The
// returned shop has no ID or OwnerID. On failure the error is FieldErrors.
func Validate(in Input) (*model.Shop, error) {
	errs := FieldErrors{}

	name := strings.TrimSpace(in.ShopName)
	switch {
	case name == "":
		errs["shop_name"] = "shop name is required"
	case utf8.RuneCountInString(name) > maxShopNameLen:
		errs["shop_name"] = "shop name must be 100 characters or fewer"
	}

	bStart, err1 := normalizeClock(in.BusinessHoursStart)
	bEnd, err2 := normalizeClock(in.BusinessHoursEnd)
	businessOK := err1 == nil && err2 == nil
	switch {
	case !businessOK:
		errs["business_time"] = "business hours must be valid times (HH:MM)"
	case bStart >= bEnd:
		errs["business_time"] = "business hours must start before they end"
		businessOK = false
	}

	rStart, err1 := normalizeClock(in.ReservationHoursStart)
	rEnd, err2 := normalizeClock(in.ReservationHoursEnd)
	switch {
	case err1 != nil || err2 != nil:
		errs["reservation_time"] = "reservation hours must be valid times (HH:MM)"
	case rStart >= rEnd:
		errs["reservation_time"] = "reservation hours must start before they end"
	case businessOK && (rStart < bStart || rEnd > bEnd):
		errs["reservation_time"] = "reservation hours must lie within business hours"
	}

	business, badB := normalizeDays(in.BusinessDays)
	closed, badC := normalizeDays(in.ClosedDays)
	switch {
	case badB != "":
		errs["days"] = fmt.Sprintf("unknown weekday %q", badB)
	case badC != "":
		errs["days"] = fmt.Sprintf("unknown weekday %q", badC)
	case overlaps(business, closed):
		errs["days"] = "business days and closed days overlap"
	case len(business) == 0:
		errs["days"] = "at least one business day is required"
	}

	capacity := 1
	if in.MaxReservationsPerSlot != nil {
		capacity = *in.MaxReservationsPerSlot
		if capacity < 1 {
			errs["max_reservations_per_slot"] = "max reservations per slot must be at least 1"
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &model.Shop{
		ShopName:               name,
		BusinessHoursStart:     bStart,
		BusinessHoursEnd:       bEnd,
		ReservationHoursStart:  rStart,
		ReservationHoursEnd:    rEnd,
		BusinessDays:           business,
		ClosedDays:             closed,
		MaxReservationsPerSlot: capacity,
	}, nil
}

// normalizeClock parses HH:MM or HH:MM:SS and returns HH:MM:SS, which
// compares correctly as a string.
func normalizeClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	layout := "15:04:05"
	if len(s) == 5 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", err
	}
	return t.Format("15:04:05"), nil
}

// normalizeDays lower-cases, de-duplicates and orders days Sunday first.
// It returns the first unknown name, if any.
func normalizeDays(days []string) (model.Weekdays, string) {
	seen := map[string]bool{}
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if !model.IsWeekdayName(d) {
			return nil, d
		}
		seen[d] = true
	}
	out := model.Weekdays{}
	for _, n := range model.WeekdayNames {
		if seen[n] {
			out = append(out, n)
		}
	}
	return out, ""
}

func overlaps(a, b model.Weekdays) bool {
	for _, d := range a {
		if b.Contains(d) {
			return true
		}
	}
	return false
}
