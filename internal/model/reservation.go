package model

import "time"

// Reservation statuses. Only active reservations occupy a slot.
const (
	ReservationActive    = "active"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// Reservation is a user's booking of one 30-minute slot at a shop.
// ReservationDate is a calendar date (YYYY-MM-DD) and ReservationTime
// the slot start in HH:MM:SS, both interpreted in the shop's local
// time frame.
type Reservation struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	ShopID          string    `db:"shop_id" json:"shop_id"`
	ReservationDate string    `db:"reservation_date" json:"reservation_date"`
	ReservationTime string    `db:"reservation_time" json:"reservation_time"`
	ReserverName    string    `db:"reserver_name" json:"reserver_name"`
	Comment         string    `db:"comment" json:"comment"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// UserReservation is a reservation joined with the shop details shown
// on the "my reservations" page.
type UserReservation struct {
	Reservation
	ShopName           string `db:"shop_name" json:"shop_name"`
	BusinessHoursStart string `db:"business_hours_start" json:"business_hours_start"`
	BusinessHoursEnd   string `db:"business_hours_end" json:"business_hours_end"`
}

// ShopReservation is a reservation as seen by the shop admin, with the
// booking user's name and the current occupancy of its slot.
type ShopReservation struct {
	Reservation
	UserName  string `db:"user_name" json:"user_name"`
	SlotCount int    `db:"slot_count" json:"slot_count"`
	SlotMax   int    `db:"slot_max" json:"slot_max"`
}
