package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/ryokou/internal/itinerary"
)

// itemColumns is the column list every item query selects, in scan order.
const itemColumns = `id, type, timestamp, title, location_name, price,
	location_url, memo, photo_data, transport_duration, icon_name`

// itemOrder is the deterministic ordering for item reads.
const itemOrder = `ORDER BY timestamp IS NULL, timestamp ASC, id COLLATE BINARY ASC`

// marshalTimestamp converts a timestamp to its column value. The zero time is stored as NULL.
func marshalTimestamp(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func unmarshalTimestamp(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(0, v.Int64).UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// unknownTypeError marks a row whose type column is outside the enumeration.
type unknownTypeError struct {
	id   string
	name string
}

func (e *unknownTypeError) Error() string {
	return fmt.Sprintf("item %s: unknown type %q", e.id, e.name)
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scannedItem is a row before its photo representation is resolved.
type scannedItem struct {
	item   itinerary.Item
	inline []byte
}

func scanItem(row rowScanner) (scannedItem, error) {
	var (
		id, typeName, title, locationName     string
		ts                                    sql.NullInt64
		price                                 float64
		locationURL, memo, duration, iconName sql.NullString
		photo                                 []byte
	)
	if err := row.Scan(&id, &typeName, &ts, &title, &locationName, &price,
		&locationURL, &memo, &photo, &duration, &iconName); err != nil {
		return scannedItem{}, err
	}

	typ, err := itinerary.ParseItemType(typeName)
	if err != nil {
		return scannedItem{}, &unknownTypeError{id: id, name: typeName}
	}

	return scannedItem{
		item: itinerary.Item{
			ID:                id,
			Type:              typ,
			Timestamp:         unmarshalTimestamp(ts),
			Title:             title,
			LocationName:      locationName,
			Price:             price,
			LocationURL:       locationURL.String,
			Memo:              memo.String,
			TransportDuration: duration.String,
			IconName:          iconName.String,
		},
		inline: photo,
	}, nil
}

// resolvePhoto picks the photo variant for a scanned row. Inline bytes win
// over a file so unmigrated records keep showing the photo they were saved with.
func (s *Store) resolvePhoto(sc scannedItem) itinerary.Item {
	it := sc.item
	switch {
	case len(sc.inline) > 0:
		it.Photo = itinerary.InlinePhoto(sc.inline)
	case s.images.Exists(it.ID):
		it.Photo = itinerary.FilePhoto()
	default:
		it.Photo = itinerary.NoPhoto()
	}
	return it
}
