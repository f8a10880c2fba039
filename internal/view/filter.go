package view

import (
	"slices"
	"time"

	"github.com/roach88/ryokou/internal/itinerary"
)

// FilterKind names which restriction of a Filter is in effect.
type FilterKind uint8

const (
	KindAllTime FilterKind = iota
	KindMonth
	KindDay
)

func (k FilterKind) String() string {
	switch k {
	case KindMonth:
		return "month"
	case KindDay:
		return "day"
	default:
		return "all"
	}
}

// Filter is the list's active date restriction. The zero Filter is AllTime.
//
// Month and Day are independent: a Day may be selected inside a Month, in
// which case the month stays as the superset to return to with SelectAll.
type Filter struct {
	Month YearMonth
	Day   Day
}

// AllTime returns the unrestricted filter.
func AllTime() Filter { return Filter{} }

// MonthFilter restricts to m.
func MonthFilter(m YearMonth) Filter { return Filter{Month: m} }

// DayFilter restricts to d with no month.
func DayFilter(d Day) Filter { return Filter{Day: d} }

// Kind reports the narrowest restriction in effect.
func (f Filter) Kind() FilterKind {
	switch {
	case !f.Day.IsZero():
		return KindDay
	case !f.Month.IsZero():
		return KindMonth
	default:
		return KindAllTime
	}
}

// String renders the filter for logs and the CLI, e.g. "all", "2024-05",
// "2024-05-01" or "2024-05/2024-05-01".
func (f Filter) String() string {
	switch {
	case !f.Day.IsZero() && !f.Month.IsZero():
		return f.Month.String() + "/" + f.Day.String()
	case !f.Day.IsZero():
		return f.Day.String()
	case !f.Month.IsZero():
		return f.Month.String()
	default:
		return "all"
	}
}

// SelectDay narrows to d and keeps an active month. If d lies outside the
// active month, the month moves to the one containing d.
func (f Filter) SelectDay(d Day) Filter {
	if !f.Month.IsZero() && !f.Month.Contains(d) {
		f.Month = d.YearMonth()
	}
	f.Day = d
	return f
}

// SelectAll clears the day and keeps an active month.
func (f Filter) SelectAll() Filter {
	f.Day = Day{}
	return f
}

// SelectMonth restricts to m and clears any day.
func (f Filter) SelectMonth(m YearMonth) Filter {
	return Filter{Month: m}
}

// ShowAllDates clears both month and day.
func (f Filter) ShowAllDates() Filter {
	return AllTime()
}

// Reconcile drops selections that match no record: a day absent from the
// available days, then a month absent from the available months.
func (f Filter) Reconcile(items []itinerary.Item, loc *time.Location) Filter {
	if !f.Month.IsZero() && !slices.Contains(AvailableMonths(items, loc), f.Month) {
		f.Month = YearMonth{}
	}
	if !f.Day.IsZero() && !slices.Contains(AvailableDays(items, f.Month, loc), f.Day) {
		f.Day = Day{}
	}
	return f
}

// Matches reports whether it is visible under f. Undated records match only AllTime.
func (f Filter) Matches(it itinerary.Item, loc *time.Location) bool {
	if f.Kind() == KindAllTime {
		return true
	}
	if !it.Dated() {
		return false
	}
	d := DayOf(it.Timestamp, loc)
	if !f.Month.IsZero() && !f.Month.Contains(d) {
		return false
	}
	if !f.Day.IsZero() && d != f.Day {
		return false
	}
	return true
}

// AvailableDays returns the distinct calendar days of the dated records,
// ascending. A non-zero month restricts the result to that month.
func AvailableDays(items []itinerary.Item, month YearMonth, loc *time.Location) []Day {
	seen := make(map[Day]struct{})
	days := []Day{}
	for _, it := range items {
		if !it.Dated() {
			continue
		}
		d := DayOf(it.Timestamp, loc)
		if !month.IsZero() && !month.Contains(d) {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	slices.SortFunc(days, Day.Compare)
	return days
}

// AvailableMonths returns the distinct months of the dated records, ascending.
func AvailableMonths(items []itinerary.Item, loc *time.Location) []YearMonth {
	seen := make(map[YearMonth]struct{})
	months := []YearMonth{}
	for _, it := range items {
		if !it.Dated() {
			continue
		}
		m := DayOf(it.Timestamp, loc).YearMonth()
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	slices.SortFunc(months, YearMonth.Compare)
	return months
}
