package view

import (
	"cmp"
	"fmt"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// UndatedKey is the section key of records without a timestamp.
// It sorts after every real date key.
const UndatedKey = "9999-99-99"

// Day is a calendar date. The zero Day means "no day".
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in loc. A nil loc means time.Local.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(orLocal(loc)).Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: want YYYY-MM-DD", s)
	}
	return DayOf(t, time.UTC), nil
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// YearMonth returns the month containing d.
func (d Day) YearMonth() YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// Compare orders days chronologically.
func (d Day) Compare(o Day) int {
	switch {
	case d.Year != o.Year:
		return cmp.Compare(d.Year, o.Year)
	case d.Month != o.Month:
		return cmp.Compare(d.Month, o.Month)
	default:
		return cmp.Compare(d.Day, o.Day)
	}
}

// Start is midnight at the beginning of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, orLocal(loc))
}

// End is midnight at the beginning of the following day in loc.
// [Start, End) covers the whole day even across a DST change.
func (d Day) End(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, orLocal(loc))
}

// YearMonth is a calendar month. The zero YearMonth means "no month".
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses a YYYY-MM month.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (m YearMonth) IsZero() bool {
	return m == YearMonth{}
}

func (m YearMonth) String() string {
	if m.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// Contains reports whether d falls in m.
func (m YearMonth) Contains(d Day) bool {
	return d.Year == m.Year && d.Month == m.Month
}

func (m YearMonth) Compare(o YearMonth) int {
	if m.Year != o.Year {
		return cmp.Compare(m.Year, o.Year)
	}
	return cmp.Compare(m.Month, o.Month)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
