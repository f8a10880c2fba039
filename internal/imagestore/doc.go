// Package imagestore keeps one normalized JPEG per itinerary item on disk.
//
// Files live directly under the store directory and are named "<id>.jpg".
// The directory is created on the first Save, so an empty store leaves no
// trace on disk.
//
// Every write decodes the input, applies EXIF orientation, optionally
// downscales to a maximum dimension and re-encodes as JPEG. Original format
// and metadata are not preserved. Writes go through a temporary file and a
// rename, so a failed Save never leaves a truncated image behind.
//
// The store is independent of the record store's transactions. Pairing file
// and record lifetimes is the caller's job.
package imagestore
