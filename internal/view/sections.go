package view

import (
	"slices"
	"time"

	"github.com/roach88/ryokou/internal/itinerary"
)

// Section is one day of the list.
type Section struct {
	// Day is zero for the undated section.
	Day     Day
	Undated bool
	Items   []itinerary.Item
	Total   float64
}

// Key is the section's stable identifier: the day as YYYY-MM-DD, or
// UndatedKey for the undated section.
func (s Section) Key() string {
	if s.Undated {
		return UndatedKey
	}
	return s.Day.String()
}

// Sections is the derived list.
type Sections struct {
	Sections   []Section
	GrandTotal float64

	// Filter is the filter actually applied after reconciliation. Callers
	// store it back so a stale day selection is not carried forward.
	Filter Filter

	// ShowHeaders is false when a single day is selected.
	ShowHeaders bool
}

// Len returns the number of visible records.
func (s Sections) Len() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Items)
	}
	return n
}

// DeriveSections groups the records visible under filter by calendar day in loc.
//
// Sections are ascending by day with the undated section last, and items in a
// section are ascending by timestamp. When a day is selected the result holds
// exactly that one section. Totals are plain sums of price, zero prices included.
func DeriveSections(items []itinerary.Item, filter Filter, loc *time.Location) Sections {
	filter = filter.Reconcile(items, loc)
	out := Sections{
		Sections:    []Section{},
		Filter:      filter,
		ShowHeaders: filter.Kind() != KindDay,
	}

	byDay := make(map[Day]*Section)
	var undated *Section
	for _, it := range items {
		if !filter.Matches(it, loc) {
			continue
		}
		var sec *Section
		if !it.Dated() {
			if undated == nil {
				undated = &Section{Undated: true}
			}
			sec = undated
		} else {
			d := DayOf(it.Timestamp, loc)
			sec = byDay[d]
			if sec == nil {
				sec = &Section{Day: d}
				byDay[d] = sec
			}
		}
		sec.Items = append(sec.Items, it)
		sec.Total += it.Price
	}

	days := make([]Day, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	slices.SortFunc(days, Day.Compare)

	for _, d := range days {
		out.Sections = append(out.Sections, *byDay[d])
	}
	if undated != nil {
		out.Sections = append(out.Sections, *undated)
	}

	for i := range out.Sections {
		slices.SortStableFunc(out.Sections[i].Items, itinerary.Compare)
		out.GrandTotal += out.Sections[i].Total
	}
	return out
}
