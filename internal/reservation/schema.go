package reservation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxReserverNameLen = 50
	maxCommentLen      = 500
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Input is the JSON body of a reservation request as sent by clients.
type Input struct {
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	ReserverName    string `json:"reserver_name"`
	Comment         string `json:"comment"`
}

// Request is an Input that passed ParseInput: the date is a real calendar
// date, the time sits on a 30-minute boundary, and the name is trimmed.
type Request struct {
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	ReserverName string
	Comment      string
}

// ParseInput checks the structure of in without any I/O. On failure it
// returns an *Error of KindInvalidInput whose Fields map names every
// offending field.
func ParseInput(in Input) (Request, error) {
	fields := map[string]string{}

	date := strings.TrimSpace(in.ReservationDate)
	switch {
	case date == "":
		fields["reservation_date"] = "reservation date is required"
	case !datePattern.MatchString(date):
		fields["reservation_date"] = "reservation date must be in YYYY-MM-DD format"
	default:
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			fields["reservation_date"] = "reservation date is not a valid calendar date"
		}
	}

	clock := strings.TrimSpace(in.ReservationTime)
	switch {
	case clock == "":
		fields["reservation_time"] = "reservation time is required"
	case !timePattern.MatchString(clock):
		fields["reservation_time"] = "reservation time must be in HH:MM format"
	default:
		t, err := time.Parse("15:04", clock)
		switch {
		case err != nil:
			fields["reservation_time"] = "reservation time must be in HH:MM format"
		case t.Minute() != 0 && t.Minute() != 30:
			fields["reservation_time"] = "reservation time must be on a 30-minute boundary (e.g. 14:00, 14:30)"
		}
	}

	name := strings.TrimSpace(in.ReserverName)
	switch {
	case name == "":
		fields["reserver_name"] = "reserver name is required"
	case utf8.RuneCountInString(name) > maxReserverNameLen:
		fields["reserver_name"] = "reserver name must be 50 characters or fewer"
	}

	if utf8.RuneCountInString(in.Comment) > maxCommentLen {
		fields["comment"] = "comment must be 500 characters or fewer"
	}

	if len(fields) > 0 {
		return Request{}, &Error{Kind: KindInvalidInput, Message: ErrInvalidInput.Message, Fields: fields}
	}
	return Request{Date: date, Time: clock, ReserverName: name, Comment: in.Comment}, nil
}
