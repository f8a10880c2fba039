package harness

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)

	for _, path := range paths {
		sc, err := LoadScenario(path)
		require.NoError(t, err)

		t.Run(sc.Name, func(t *testing.T) {
			result := RunWithGolden(t, sc)
			assert.True(t, result.Pass)
		})
	}
}

func mustParse(t *testing.T, doc string) *Scenario {
	t.Helper()
	sc, err := ParseScenario([]byte(strings.TrimLeft(doc, "\n")))
	require.NoError(t, err)
	return sc
}

func TestRun_ReportsExpectationMismatch(t *testing.T) {
	sc := mustParse(t, `
name: mismatch
description: d
steps:
  - add: { id: a, type: activity, title: Temple, at: "2024-05-01 10:00", price: 500 }
  - expect:
      grand_total: 900
expect:
  filter: "2024-05"
`)

	result, err := Run(context.Background(), sc, t.TempDir())
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "grand_total: expected 900, got 500")
	assert.Contains(t, result.Errors[1], "final: filter: expected 2024-05, got all")
	assert.Equal(t, "error", result.Trace[1].Outcome)
}

func TestRun_FailingAddThatSucceeds(t *testing.T) {
	sc := mustParse(t, `
name: not-rejected
description: d
steps:
  - add: { id: a, type: activity, title: Temple, fails: true }
`)

	result, err := Run(context.Background(), sc, t.TempDir())
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected invalid input")
}

func TestRun_RejectsInvalidPrice(t *testing.T) {
	sc := mustParse(t, `
name: negative
description: d
steps:
  - add: { id: a, type: activity, title: Temple, price: -1, fails: true }
expect:
  count: 0
`)

	result, err := Run(context.Background(), sc, t.TempDir())
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, OutcomeRejected, result.Trace[0].Outcome)
}

func TestRun_DeleteUnknownFails(t *testing.T) {
	sc := mustParse(t, `
name: unknown
description: d
steps:
  - delete: ghost
`)

	result, err := Run(context.Background(), sc, t.TempDir())
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "steps[0] delete ghost")
}

func TestRun_UnknownTimezone(t *testing.T) {
	sc := mustParse(t, `
name: tz
description: d
timezone: Mars/Olympus
steps:
  - show_all_dates: true
`)

	_, err := Run(context.Background(), sc, t.TempDir())
	require.Error(t, err)
}

func TestRun_EmptyStoreSnapshot(t *testing.T) {
	sc := mustParse(t, `
name: empty
description: d
steps:
  - select_day: "2024-05-01"
`)

	result, err := Run(context.Background(), sc, t.TempDir())
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	assert.Equal(t, "all", result.Trace[0].Filter)
	assert.Equal(t, Snapshot{
		Filter:      "all",
		ShowHeaders: true,
		Sections:    []SnapshotSection{},
		Days:        []string{},
		Months:      []string{},
	}, result.Final)
}
