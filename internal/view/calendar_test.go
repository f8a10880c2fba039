package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf_UsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-05-01 20:00 UTC is already 05-02 in Tokyo.
	ts := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, Day{2024, time.May, 1}, DayOf(ts, time.UTC))
	assert.Equal(t, Day{2024, time.May, 2}, DayOf(ts, tokyo))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-05-03")
	require.NoError(t, err)
	assert.Equal(t, Day{2024, time.May, 3}, d)
	assert.Equal(t, "2024-05-03", d.String())

	for _, bad := range []string{"", "2024-5-3", "2024-13-01", "yesterday"} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseYearMonth(t *testing.T) {
	m, err := ParseYearMonth("2024-05")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{2024, time.May}, m)
	assert.Equal(t, "2024-05", m.String())

	_, err = ParseYearMonth("2024-05-01")
	assert.Error(t, err)
}

func TestDay_Compare(t *testing.T) {
	a := Day{2024, time.May, 31}
	b := Day{2024, time.June, 1}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, Day{2023, time.December, 31}.Compare(a))
}

func TestDay_StartEndCoverWholeDayAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks spring forward on 2024-03-10, a 23 hour day.
	d := Day{2024, time.March, 10}
	assert.Equal(t, 23*time.Hour, d.End(ny).Sub(d.Start(ny)))
	assert.Equal(t, d, DayOf(d.Start(ny), ny))
	assert.Equal(t, Day{2024, time.March, 11}, DayOf(d.End(ny), ny))
}

func TestYearMonth_Contains(t *testing.T) {
	m := YearMonth{2024, time.May}
	assert.True(t, m.Contains(Day{2024, time.May, 31}))
	assert.False(t, m.Contains(Day{2024, time.June, 1}))
	assert.False(t, m.Contains(Day{2023, time.May, 1}))
}

func TestZeroValuesRenderEmpty(t *testing.T) {
	assert.True(t, Day{}.IsZero())
	assert.Equal(t, "", Day{}.String())
	assert.True(t, YearMonth{}.IsZero())
	assert.Equal(t, "", YearMonth{}.String())
}
