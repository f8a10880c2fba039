// Package app wires the itinerary stores, the image cache and preferences
// into one Service, the surface the command line drives.
//
// Service keeps the pairing rules in one place: a record delete is always
// followed by evicting its cached image, and creates fill in the item's icon
// from the per-type preference when none is given.
package app
