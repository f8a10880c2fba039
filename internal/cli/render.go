package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/ryokou/internal/itinerary"
	"github.com/roach88/ryokou/internal/view"
)

var yenPrinter = message.NewPrinter(language.Japanese)

// formatYen renders an amount with digit grouping, e.g. ¥13,320.
// Fractional amounts keep two decimals.
func formatYen(amount float64) string {
	if amount == math.Trunc(amount) && math.Abs(amount) < 1e15 {
		return yenPrinter.Sprintf("¥%d", int64(amount))
	}
	return yenPrinter.Sprintf("¥%.2f", amount)
}

func formatClock(it itinerary.Item, loc *time.Location) string {
	if !it.Dated() {
		return "--:--"
	}
	return it.Timestamp.In(loc).Format("15:04")
}

// writeItemLine writes one list row. Zero prices are not shown.
func writeItemLine(w io.Writer, it itinerary.Item, loc *time.Location) {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s  %-10s  %s", formatClock(it, loc), it.Type, it.Title)
	if it.LocationName != "" {
		fmt.Fprintf(&b, " @ %s", it.LocationName)
	}
	if it.Price > 0 {
		fmt.Fprintf(&b, "  %s", formatYen(it.Price))
	}
	if it.Photo.Kind() != itinerary.PhotoAbsent {
		b.WriteString("  [photo]")
	}
	fmt.Fprintf(&b, "  (%s)", it.ID)
	fmt.Fprintln(w, b.String())
}

func sectionTitle(sec view.Section) string {
	if sec.Undated {
		return "Undated"
	}
	return sec.Day.String()
}

// writeSections renders the derived list as text.
func writeSections(w io.Writer, res view.Sections, loc *time.Location) {
	if res.Len() == 0 {
		fmt.Fprintf(w, "No items (filter: %s)\n", res.Filter)
		return
	}
	for i, sec := range res.Sections {
		if res.ShowHeaders {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s  %s\n", sectionTitle(sec), formatYen(sec.Total))
		}
		for _, it := range sec.Items {
			writeItemLine(w, it, loc)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total %s  (%d items, filter: %s)\n", formatYen(res.GrandTotal), res.Len(), res.Filter)
}

// writeItemDetail renders every field of one item.
func writeItemDetail(w io.Writer, it itinerary.Item, loc *time.Location) {
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-10s %s\n", label+":", value)
		}
	}
	row("ID", it.ID)
	row("Type", it.Type.String())
	row("Title", it.Title)
	if it.Dated() {
		row("When", it.Timestamp.In(loc).Format("2006-01-02 15:04 MST"))
	} else {
		row("When", "undated")
	}
	row("Location", it.LocationName)
	if it.Price > 0 {
		row("Price", formatYen(it.Price))
	}
	if it.LocationURL != "" {
		label := "Link"
		if itinerary.IsMapURL(it.LocationURL) {
			label = "Map"
		}
		row(label, it.LocationURL)
	}
	if it.Type == itinerary.TypeTransport {
		row("Duration", it.TransportDuration)
	}
	row("Icon", it.IconName)
	row("Photo", it.Photo.Kind().String())
	if it.Memo != "" {
		fmt.Fprintln(w, "Memo:")
		for _, line := range strings.Split(it.Memo, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// itemJSON is the JSON shape of an item.
type itemJSON struct {
	ID                string  `json:"id"`
	Type              string  `json:"type"`
	Timestamp         *string `json:"timestamp"`
	Day               string  `json:"day,omitempty"`
	Title             string  `json:"title"`
	LocationName      string  `json:"location_name,omitempty"`
	Price             float64 `json:"price"`
	LocationURL       string  `json:"location_url,omitempty"`
	IsMap             bool    `json:"is_map,omitempty"`
	Memo              string  `json:"memo,omitempty"`
	TransportDuration string  `json:"transport_duration,omitempty"`
	IconName          string  `json:"icon_name,omitempty"`
	Photo             string  `json:"photo"`
}

func toItemJSON(it itinerary.Item, loc *time.Location) itemJSON {
	out := itemJSON{
		ID:                it.ID,
		Type:              it.Type.String(),
		Title:             it.Title,
		LocationName:      it.LocationName,
		Price:             it.Price,
		LocationURL:       it.LocationURL,
		IsMap:             itinerary.IsMapURL(it.LocationURL),
		Memo:              it.Memo,
		TransportDuration: it.TransportDuration,
		IconName:          it.IconName,
		Photo:             it.Photo.Kind().String(),
	}
	if it.Dated() {
		ts := it.Timestamp.In(loc).Format(time.RFC3339)
		out.Timestamp = &ts
		out.Day = view.DayOf(it.Timestamp, loc).String()
	}
	return out
}

type sectionJSON struct {
	Key     string     `json:"key"`
	Undated bool       `json:"undated,omitempty"`
	Total   float64    `json:"total"`
	Items   []itemJSON `json:"items"`
}

type listJSON struct {
	Filter      filterJSON    `json:"filter"`
	ShowHeaders bool          `json:"show_headers"`
	GrandTotal  float64       `json:"grand_total"`
	Sections    []sectionJSON `json:"sections"`
}

type filterJSON struct {
	Kind  string `json:"kind"`
	Month string `json:"month,omitempty"`
	Day   string `json:"day,omitempty"`
}

func toFilterJSON(f view.Filter) filterJSON {
	return filterJSON{Kind: f.Kind().String(), Month: f.Month.String(), Day: f.Day.String()}
}

func toListJSON(res view.Sections, loc *time.Location) listJSON {
	out := listJSON{
		Filter:      toFilterJSON(res.Filter),
		ShowHeaders: res.ShowHeaders,
		GrandTotal:  res.GrandTotal,
		Sections:    make([]sectionJSON, 0, len(res.Sections)),
	}
	for _, sec := range res.Sections {
		sj := sectionJSON{
			Key:     sec.Key(),
			Undated: sec.Undated,
			Total:   sec.Total,
			Items:   make([]itemJSON, 0, len(sec.Items)),
		}
		for _, it := range sec.Items {
			sj.Items = append(sj.Items, toItemJSON(it, loc))
		}
		out.Sections = append(out.Sections, sj)
	}
	return out
}
