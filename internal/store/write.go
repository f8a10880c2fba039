package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/roach88/ryokou/internal/itinerary"
)

// CreateResult is the outcome of a successful Create.
type CreateResult struct {
	Item itinerary.Item

	// ImageErr is set when a photo was supplied but could not be written.
	// The record is committed regardless.
	ImageErr error
}

// Create commits a new record and, if in.Photo is set, writes the photo to the
// image store under the new id. The inline photo column is never written.
//
// The input is assumed to have passed NewItem.Validate.
func (s *Store) Create(ctx context.Context, in itinerary.NewItem) (CreateResult, error) {
	id := s.ids.Generate()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO itinerary_items
		(id, type, timestamp, title, location_name, price, location_url, memo, transport_duration, icon_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		in.Type.String(),
		marshalTimestamp(in.Timestamp),
		in.Title,
		in.LocationName,
		in.Price,
		nullString(in.LocationURL),
		nullString(in.Memo),
		nullString(in.TransportDuration),
		nullString(in.IconName),
	)
	if err != nil {
		return CreateResult{}, storageErr("create item", err)
	}
	s.metrics.ItemCreated()

	item := itinerary.Item{
		ID:                id,
		Type:              in.Type,
		Timestamp:         in.Timestamp,
		Title:             in.Title,
		LocationName:      in.LocationName,
		Price:             in.Price,
		LocationURL:       in.LocationURL,
		Memo:              in.Memo,
		TransportDuration: in.TransportDuration,
		IconName:          in.IconName,
		Photo:             itinerary.NoPhoto(),
	}

	result := CreateResult{Item: item}
	if len(in.Photo) > 0 {
		if err := s.images.Save(id, in.Photo); err != nil {
			s.metrics.ImageWriteFailed()
			s.log.Warn("photo not saved for new item", "item_id", id, "error", err)
			result.ImageErr = fmt.Errorf("save photo for %s: %w", id, err)
		} else {
			result.Item.Photo = itinerary.FilePhoto()
		}
	}
	return result, nil
}

// Delete removes the record with id and its image file.
// Both removals are attempted; their errors are combined.
// Deleting an id with no record or no image is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	var errs error

	res, err := s.db.ExecContext(ctx, `DELETE FROM itinerary_items WHERE id = ?`, id)
	if err != nil {
		errs = multierr.Append(errs, storageErr("delete item", err))
	} else if n, _ := res.RowsAffected(); n > 0 {
		s.metrics.ItemDeleted()
	}

	if err := s.images.Delete(id); err != nil {
		s.log.Warn("image not deleted", "item_id", id, "error", err)
		errs = multierr.Append(errs, fmt.Errorf("delete image for %s: %w", id, err))
	}

	return errs
}

// DeleteBetween deletes every record whose timestamp lies in [start, end),
// pairing each with its image delete. It reads the matching ids from the
// database rather than from any filtered view.
//
// Returns the ids whose row delete succeeded, in timestamp order.
func (s *Store) DeleteBetween(ctx context.Context, start, end time.Time) ([]string, error) {
	ids, err := s.idsBetween(ctx, start, end)
	if err != nil {
		return []string{}, err
	}

	deleted := make([]string, 0, len(ids))
	var errs error
	for _, id := range ids {
		err := s.Delete(ctx, id)
		if err == nil || !multierrContainsStorage(err) {
			deleted = append(deleted, id)
		}
		errs = multierr.Append(errs, err)
	}
	return deleted, errs
}

func multierrContainsStorage(err error) bool {
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, ErrStorage) {
			return true
		}
	}
	return false
}
