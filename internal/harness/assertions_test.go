package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func sampleSnapshot() Snapshot {
	return Snapshot{
		Filter:      "all",
		GrandTotal:  1700,
		ShowHeaders: true,
		Sections: []SnapshotSection{
			{Key: "2024-05-01", Total: 500, Titles: []string{"Temple"}},
			{Key: "9999-99-99", Total: 1200, Titles: []string{"Rail pass"}},
		},
		Days:   []string{"2024-05-01"},
		Months: []string{"2024-05"},
		Count:  2,
	}
}

func TestCheckExpect_AllMatch(t *testing.T) {
	exp := &Expect{
		Filter:      ptr("all"),
		GrandTotal:  ptr(1700.0),
		ShowHeaders: ptr(true),
		Count:       ptr(2),
		Days:        []string{"2024-05-01"},
		Months:      []string{"2024-05"},
		Sections: []SectionExpect{
			{Key: "2024-05-01", Total: 500, Titles: []string{"Temple"}},
			{Key: "9999-99-99", Total: 1200},
		},
	}
	assert.Empty(t, checkExpect(sampleSnapshot(), exp))
}

func TestCheckExpect_UnsetFieldsIgnored(t *testing.T) {
	assert.Empty(t, checkExpect(sampleSnapshot(), &Expect{}))
}

func TestCheckExpect_Mismatches(t *testing.T) {
	exp := &Expect{
		Filter: ptr("2024-05"),
		Days:   []string{},
		Sections: []SectionExpect{
			{Key: "2024-05-02", Total: 500, Titles: []string{"Temple"}},
			{Key: "9999-99-99", Total: 1000, Titles: []string{"Pass"}},
		},
	}

	msgs := checkExpect(sampleSnapshot(), exp)

	assert.Equal(t, []string{
		"filter: expected 2024-05, got all",
		"days: expected [], got [2024-05-01]",
		"sections[0].key: expected 2024-05-02, got 2024-05-01",
		"sections[1].total: expected 1000, got 1200",
		"sections[1].titles: expected [Pass], got [Rail pass]",
	}, msgs)
}

func TestCheckExpect_SectionCount(t *testing.T) {
	exp := &Expect{Sections: []SectionExpect{{Key: "2024-05-01"}}}

	msgs := checkExpect(sampleSnapshot(), exp)

	assert.Equal(t, []string{"sections: expected [2024-05-01], got [2024-05-01 9999-99-99]"}, msgs)
}
