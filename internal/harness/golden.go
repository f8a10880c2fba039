package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a scenario, fails the test on any step or expectation
// error, and compares the trace and final snapshot against the golden file.
//
// Run with -update to regenerate golden files.
func RunWithGolden(t *testing.T, sc *Scenario) *Result {
	t.Helper()

	result, err := Run(context.Background(), sc, t.TempDir())
	if err != nil {
		t.Fatalf("harness.Run failed: %v", err)
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", sc.Name, msg)
	}

	data, err := GoldenBytes(result)
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
	return result
}

// GoldenBytes renders the parts of a Result compared against golden files.
func GoldenBytes(r *Result) ([]byte, error) {
	out := struct {
		Trace []Event  `json:"trace"`
		Final Snapshot `json:"final"`
	}{r.Trace, r.Final}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return append(data, '\n'), nil
}
