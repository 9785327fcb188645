// Package testutil provides shared test infrastructure for the scheduling
// engine: golden dataset types and assertion helpers used by sim/ and cmd/
// test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one workload run under one policy.
type GoldenTestCase struct {
	Workload  string          `json:"workload"`
	Policy    string          `json:"policy"`
	Quantum   int             `json:"quantum"`
	Processes []GoldenProcess `json:"processes"`
	Timeline  []GoldenSegment `json:"timeline"`
	Metrics   GoldenMetrics   `json:"metrics"`
}

// GoldenProcess is one input process.
type GoldenProcess struct {
	ID       int   `json:"id"`
	Arrival  int64 `json:"arrival"`
	Burst    int64 `json:"burst"`
	Priority *int  `json:"priority,omitempty"`
}

// GoldenSegment is one expected Gantt segment [start, end).
type GoldenSegment struct {
	ID    int   `json:"id"`
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	TotalTime       int64            `json:"total_time"`
	IdleTime        int64            `json:"idle_time"`
	ContextSwitches int              `json:"context_switches"`
	Completion      map[string]int64 `json:"completion"` // keyed by process ID

	// Averages
	AvgWaiting    float64 `json:"avg_waiting"`
	AvgTurnaround float64 `json:"avg_turnaround"`
	AvgResponse   float64 `json:"avg_response"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
