package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// MigrationReport summarizes one MigrateInlineImages pass.
type MigrationReport struct {
	// Scanned is the number of records that carried inline photo data.
	Scanned int

	// Written counts photos copied to a new image file.
	Written int

	// AlreadyPresent counts records whose image file already existed.
	// The file is kept as is and only the inline column is cleared.
	AlreadyPresent int

	// Failed counts records left untouched because the file write or the
	// column update failed. Their inline data is preserved.
	Failed int
}

// MigrateInlineImages moves legacy inline photos into the image store.
//
// For each record with inline data: if no file exists for its id, the data is
// written and the column cleared; if a file exists, only the column is cleared
// and the file is not overwritten. A record whose write fails keeps its inline
// data. Running the pass again converges on the same end state.
func (s *Store) MigrateInlineImages(ctx context.Context) (MigrationReport, error) {
	var report MigrationReport

	ids, err := s.inlinePhotoIDs(ctx)
	if err != nil {
		return report, err
	}

	var errs error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, multierr.Append(errs, err)
		}
		report.Scanned++

		data, err := s.InlinePhoto(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Deleted since the id scan.
			report.Scanned--
			continue
		}
		if err != nil {
			report.Failed++
			errs = multierr.Append(errs, err)
			continue
		}

		written := false
		if len(data) > 0 && !s.images.Exists(id) {
			if err := s.images.Save(id, data); err != nil {
				report.Failed++
				s.metrics.ImageWriteFailed()
				s.log.Warn("inline photo not migrated", "item_id", id, "error", err)
				errs = multierr.Append(errs, fmt.Errorf("migrate photo for %s: %w", id, err))
				continue
			}
			written = true
		}

		if err := s.clearInline(ctx, id); err != nil {
			report.Failed++
			errs = multierr.Append(errs, err)
			continue
		}

		switch {
		case written:
			report.Written++
			s.metrics.ImageMigrated()
		case len(data) > 0:
			report.AlreadyPresent++
			s.log.Debug("image file already present, inline photo dropped", "item_id", id)
		}
	}

	return report, errs
}

// inlinePhotoIDs lists records whose photo_data column is set.
// Zero-length blobs are included so the pass also normalizes them to NULL.
func (s *Store) inlinePhotoIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM itinerary_items
		WHERE photo_data IS NOT NULL
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, storageErr("query inline photos", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan inline photo id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate inline photos", err)
	}
	return ids, nil
}

func (s *Store) clearInline(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE itinerary_items SET photo_data = NULL WHERE id = ?`, id); err != nil {
		return storageErr("clear inline photo", err)
	}
	return nil
}
