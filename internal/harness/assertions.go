package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError describes an expectation that did not hold.
type AssertionError struct {
	Field    string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", e.Field, e.Expected, e.Actual)
}

// checkExpect compares snap against exp and returns one message per mismatch.
func checkExpect(snap Snapshot, exp *Expect) []string {
	var errs []error
	add := func(field string, expected, actual any) {
		errs = append(errs, &AssertionError{Field: field, Expected: expected, Actual: actual})
	}

	if exp.Filter != nil && *exp.Filter != snap.Filter {
		add("filter", *exp.Filter, snap.Filter)
	}
	if exp.GrandTotal != nil && *exp.GrandTotal != snap.GrandTotal {
		add("grand_total", *exp.GrandTotal, snap.GrandTotal)
	}
	if exp.ShowHeaders != nil && *exp.ShowHeaders != snap.ShowHeaders {
		add("show_headers", *exp.ShowHeaders, snap.ShowHeaders)
	}
	if exp.Count != nil && *exp.Count != snap.Count {
		add("count", *exp.Count, snap.Count)
	}
	if exp.Days != nil && !slices.Equal(exp.Days, snap.Days) {
		add("days", exp.Days, snap.Days)
	}
	if exp.Months != nil && !slices.Equal(exp.Months, snap.Months) {
		add("months", exp.Months, snap.Months)
	}
	if exp.Sections != nil {
		errs = append(errs, checkSections(exp.Sections, snap.Sections)...)
	}

	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

func checkSections(expected []SectionExpect, actual []SnapshotSection) []error {
	if len(expected) != len(actual) {
		return []error{&AssertionError{Field: "sections", Expected: sectionKeys(expected), Actual: snapshotKeys(actual)}}
	}
	var errs []error
	for i := range expected {
		e, a := expected[i], actual[i]
		field := fmt.Sprintf("sections[%d]", i)
		if e.Key != a.Key {
			errs = append(errs, &AssertionError{Field: field + ".key", Expected: e.Key, Actual: a.Key})
		}
		if e.Total != a.Total {
			errs = append(errs, &AssertionError{Field: field + ".total", Expected: e.Total, Actual: a.Total})
		}
		if e.Titles != nil && !slices.Equal(e.Titles, a.Titles) {
			errs = append(errs, &AssertionError{Field: field + ".titles", Expected: e.Titles, Actual: a.Titles})
		}
	}
	return errs
}

func sectionKeys(s []SectionExpect) []string {
	keys := make([]string, len(s))
	for i, sec := range s {
		keys[i] = sec.Key
	}
	return keys
}

func snapshotKeys(s []SnapshotSection) []string {
	keys := make([]string, len(s))
	for i, sec := range s {
		keys[i] = sec.Key
	}
	return keys
}

func joinMessages(msgs []string) string {
	return strings.Join(msgs, "; ")
}
