package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/shop-reservation/internal/model"
)

// ShopSearchQuery holds the public search filters. Empty fields are not
// applied. Weekday is a name from model.WeekdayNames and Time is HH:MM:SS.
type ShopSearchQuery struct {
	Name    string
	Weekday string
	Time    string
	Page    int
	Limit   int
}

// AdminShopSearchQuery holds the system admin filters. A shop matches
// BusinessHoursStart when it opens at or before it, and BusinessHoursEnd
// when it closes at or after it. The shop must be open on every day in
// BusinessDays and on none of the days in ClosedDays.
type AdminShopSearchQuery struct {
	Name               string
	BusinessHoursStart string
	BusinessHoursEnd   string
	BusinessDays       []string
	ClosedDays         []string
	Page               int
	Limit              int
}

// Search returns one page of shops matching q and the total match count.
func (r *ShopRepo) Search(ctx context.Context, q ShopSearchQuery) ([]model.Shop, int64, error) {
	var (
		where []string
		args  []any
	)
	if q.Name != "" {
		where = append(where, "LOWER(shop_name) LIKE ?")
		args = append(args, likePattern(q.Name))
	}
	if q.Time != "" {
		where = append(where, "reservation_hours_start <= ? AND reservation_hours_end >= ?")
		args = append(args, q.Time, q.Time)
	}
	if q.Weekday != "" {
		where = append(where, "FIND_IN_SET(?, business_days) > 0")
		args = append(args, q.Weekday)
	}
	return r.page(ctx, where, args, q.Page, q.Limit)
}

// SearchAdmin returns one page of shops matching q and the total count.
func (r *ShopRepo) SearchAdmin(ctx context.Context, q AdminShopSearchQuery) ([]model.Shop, int64, error) {
	var (
		where []string
		args  []any
	)
	if q.Name != "" {
		where = append(where, "LOWER(shop_name) LIKE ?")
		args = append(args, likePattern(q.Name))
	}
	if q.BusinessHoursStart != "" {
		where = append(where, "business_hours_start <= ?")
		args = append(args, q.BusinessHoursStart)
	}
	if q.BusinessHoursEnd != "" {
		where = append(where, "business_hours_end >= ?")
		args = append(args, q.BusinessHoursEnd)
	}
	for _, d := range q.BusinessDays {
		where = append(where, "FIND_IN_SET(?, business_days) > 0")
		args = append(args, d)
	}
	for _, d := range q.ClosedDays {
		where = append(where, "FIND_IN_SET(?, business_days) = 0")
		args = append(args, d)
	}
	return r.page(ctx, where, args, q.Page, q.Limit)
}

func (r *ShopRepo) page(ctx context.Context, where []string, args []any, page, limit int) ([]model.Shop, int64, error) {
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM shops WHERE "+cond, args...); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	dataSQL := "SELECT " + shopColumns + " FROM shops WHERE " + cond + " ORDER BY shop_name ASC, id ASC LIMIT ? OFFSET ?"
	out := make([]model.Shop, 0, limit)
	if err := r.db.SelectContext(ctx, &out, dataSQL, append(append([]any{}, args...), limit, offset)...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
