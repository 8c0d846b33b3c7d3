package shop

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/shop-reservation/internal/model"
)

var (
	searchDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	searchTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// SearchForm is the public search query string.
type SearchForm struct {
	ShopName string
	Date     string
	Time     string
}

// SearchFilter is a validated SearchForm. Weekday is derived from the
// date; Time is HH:MM:SS. Empty fields mean "no filter".
type SearchFilter struct {
	Name    string
	Weekday string
	Time    string
}

// ParseSearch validates the public search form.
func ParseSearch(f SearchForm) (SearchFilter, error) {
	errs := FieldErrors{}
	out := SearchFilter{Name: strings.TrimSpace(f.ShopName)}

	if utf8.RuneCountInString(out.Name) > maxShopNameLen {
		errs["shop_name"] = "shop name must be 100 characters or fewer"
	}
	if d := strings.TrimSpace(f.Date); d != "" {
		day, err := time.Parse(time.DateOnly, d)
		if !searchDatePattern.MatchString(d) || err != nil {
			errs["date"] = "date must be a valid YYYY-MM-DD date"
		} else {
			out.Weekday = model.WeekdayName(day.Weekday())
		}
	}
	if t := strings.TrimSpace(f.Time); t != "" {
		if !searchTimePattern.MatchString(t) {
			errs["time"] = "time must be a valid HH:MM time"
		} else {
			out.Time = t + ":00"
		}
	}

	if len(errs) > 0 {
		return SearchFilter{}, errs
	}
	return out, nil
}

// AdminSearchForm is the system admin search query string.
type AdminSearchForm struct {
	ShopName           string
	BusinessHoursStart string
	BusinessHoursEnd   string
	BusinessDays       []string
	ClosedDays         []string
}

// AdminSearchFilter is a validated AdminSearchForm with HH:MM:SS hours.
type AdminSearchFilter struct {
	Name               string
	BusinessHoursStart string
	BusinessHoursEnd   string
	BusinessDays       []string
	ClosedDays         []string
}

// ParseAdminSearch validates the admin search form. Business hours are
// given together or not at all, and a day cannot be both a required
// business day and a required closed day.
func ParseAdminSearch(f AdminSearchForm) (AdminSearchFilter, error) {
	errs := FieldErrors{}
	out := AdminSearchFilter{Name: strings.TrimSpace(f.ShopName)}
	if utf8.RuneCountInString(out.Name) > maxShopNameLen {
		errs["shop_name"] = "shop name must be 100 characters or fewer"
	}

	start, end := strings.TrimSpace(f.BusinessHoursStart), strings.TrimSpace(f.BusinessHoursEnd)
	switch {
	case start != "" && end == "":
		errs["business_hours_end"] = "business hours end is required when start is given"
	case start == "" && end != "":
		errs["business_hours_start"] = "business hours start is required when end is given"
	case start != "":
		s, err1 := normalizeClock(start)
		e, err2 := normalizeClock(end)
		switch {
		case err1 != nil:
			errs["business_hours_start"] = "business hours start must be a valid time"
		case err2 != nil:
			errs["business_hours_end"] = "business hours end must be a valid time"
		case s >= e:
			errs["business_hours_end"] = "business hours end must be after start"
		default:
			out.BusinessHoursStart, out.BusinessHoursEnd = s, e
		}
	}

	business, badB := normalizeDays(f.BusinessDays)
	closed, badC := normalizeDays(f.ClosedDays)
	switch {
	case badB != "":
		errs["business_days"] = "unknown weekday " + badB
	case badC != "":
		errs["closed_days"] = "unknown weekday " + badC
	case overlaps(business, closed):
		errs["closed_days"] = "business days and closed days overlap"
	}
	out.BusinessDays, out.ClosedDays = business, closed

	if len(errs) > 0 {
		return AdminSearchFilter{}, errs
	}
	return out, nil
}
