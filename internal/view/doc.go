// Package view derives the date-grouped list the itinerary screen renders.
//
// Everything here is a pure function of the record collection, a Filter and
// a *time.Location. Records are grouped by their calendar day in that
// location, not by truncating the raw timestamp.
//
// # Filters
//
// A Filter holds an optional month and an optional day:
//   - AllTime: neither set
//   - Month: only the month set; every day of that month is shown
//   - Day: the day set, optionally inside a month
//
// Transitions go through the Select* methods. Reconcile drops a selection
// that no longer matches any record, so a deleted day never leaves the list
// stuck on an empty section. DeriveSections reconciles before it groups.
//
// # Undated Records
//
// Records without a timestamp are shown only under AllTime, in one trailing
// section keyed UndatedKey.
package view
