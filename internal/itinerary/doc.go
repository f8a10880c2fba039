// Package itinerary defines the itinerary record and the values that travel
// with it: the closed ItemType enumeration, the Photo representation variant,
// the validated NewItem input, and identifier generators.
//
// # Photo Representation
//
// Older databases stored photos inline in the record. Newer records keep the
// bytes in a per-item file keyed by the item ID. Every record read from the
// store carries exactly one of:
//   - PhotoAbsent: no image anywhere
//   - PhotoInline: legacy bytes still held by the record
//   - PhotoFile: bytes live in the image store under Item.ID
//
// Read paths switch on Photo.Kind() and never probe fields directly.
//
// # Timestamps
//
// A zero Item.Timestamp means the record has no timestamp (legacy or damaged
// data). Such records are valid: they sort after every dated record and group
// into the undated bucket.
package itinerary
