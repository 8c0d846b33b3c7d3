package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Weekday names accepted for business_days and closed_days, in
// time.Weekday order (Sunday first).
var WeekdayNames = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekdayName returns the stored name for d.
func WeekdayName(d time.Weekday) string { return WeekdayNames[d] }

// IsWeekdayName reports whether s is one of WeekdayNames.
func IsWeekdayName(s string) bool {
	for _, n := range WeekdayNames {
		if n == s {
			return true
		}
	}
	return false
}

// Weekdays is a set of weekday names persisted as a comma separated
// column (e.g. "mon,tue,fri") so MySQL's FIND_IN_SET can query it.
type Weekdays []string

// Contains reports whether day is in the list.
func (w Weekdays) Contains(day string) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (w Weekdays) Value() (driver.Value, error) {
	return strings.Join(w, ","), nil
}

// Scan implements sql.Scanner.
func (w *Weekdays) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*w = Weekdays{}
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("weekdays: unsupported scan type %T", src)
	}
	out := Weekdays{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*w = out
	return nil
}

// Shop is a bookable business owned by exactly one SHOP_ADMIN.
// Hours are stored as MySQL TIME values and come back as HH:MM:SS.
type Shop struct {
	ID                     string    `db:"id" json:"id"`
	OwnerID                string    `db:"owner_id" json:"owner_id"`
	ShopName               string    `db:"shop_name" json:"shop_name"`
	BusinessHoursStart     string    `db:"business_hours_start" json:"business_hours_start"`
	BusinessHoursEnd       string    `db:"business_hours_end" json:"business_hours_end"`
	ReservationHoursStart  string    `db:"reservation_hours_start" json:"reservation_hours_start"`
	ReservationHoursEnd    string    `db:"reservation_hours_end" json:"reservation_hours_end"`
	BusinessDays           Weekdays  `db:"business_days" json:"business_days"`
	ClosedDays             Weekdays  `db:"closed_days" json:"closed_days"`
	MaxReservationsPerSlot int       `db:"max_reservations_per_slot" json:"max_reservations_per_slot"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
