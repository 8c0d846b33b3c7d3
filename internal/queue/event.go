// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// ReservationCreatedQueue is the durable queue reservation events are
// routed to through the default exchange.
const ReservationCreatedQueue = "reservation.created"

// ReservationCreatedEvent is published after a reservation transaction has
// committed. It carries enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID   string `json:"reservation_id"`
	UserID          string `json:"user_id"`
	ShopID          string `json:"shop_id"`
	ShopName        string `json:"shop_name"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	ReserverName    string `json:"reserver_name"`
	CreatedAt       string `json:"created_at"`
}
