package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/roach88/ryokou/internal/itinerary"
)

// FetchAll returns every record ordered by timestamp ascending, undated last.
//
// Rows whose type is not a known ItemType are skipped and logged rather than
// failing the whole read. On failure the returned slice is empty, not nil.
func (s *Store) FetchAll(ctx context.Context) ([]itinerary.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM itinerary_items `+itemOrder)
	if err != nil {
		return []itinerary.Item{}, storageErr("fetch items", err)
	}
	defer rows.Close()

	var scanned []scannedItem
	for rows.Next() {
		sc, err := scanItem(rows)
		if err != nil {
			var parseErr *unknownTypeError
			if errors.As(err, &parseErr) {
				s.log.Warn("skipping item with unknown type", "item_id", parseErr.id, "type", parseErr.name)
				continue
			}
			return []itinerary.Item{}, storageErr("scan item", err)
		}
		scanned = append(scanned, sc)
	}
	if err := rows.Err(); err != nil {
		return []itinerary.Item{}, storageErr("iterate items", err)
	}

	items := make([]itinerary.Item, 0, len(scanned))
	for _, sc := range scanned {
		items = append(items, s.resolvePhoto(sc))
	}
	return items, nil
}

// Get retrieves a single record by id.
// Returns ErrNotFound if no record has that id.
func (s *Store) Get(ctx context.Context, id string) (itinerary.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM itinerary_items WHERE id = ?`, id)

	sc, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return itinerary.Item{}, ErrNotFound
	}
	if err != nil {
		return itinerary.Item{}, storageErr("get item", err)
	}
	return s.resolvePhoto(sc), nil
}

// Exists reports whether a record with id is stored.
// A storage failure reports false.
func (s *Store) Exists(ctx context.Context, id string) bool {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM itinerary_items WHERE id = ?`, id).Scan(&n)
	if err != nil {
		s.log.Warn("existence check failed", "item_id", id, "error", err)
		return false
	}
	return n > 0
}

// InlinePhoto returns the legacy inline bytes of a record, if any.
func (s *Store) InlinePhoto(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT photo_data FROM itinerary_items WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("read inline photo", err)
	}
	return data, nil
}

func (s *Store) idsBetween(ctx context.Context, start, end time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM itinerary_items
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, id COLLATE BINARY ASC
	`, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, storageErr("query ids", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate ids", err)
	}
	return ids, nil
}
