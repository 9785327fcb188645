package workload

import (
	"fmt"
	"sort"
)

// Built-in workload presets. Each illustrates one scheduling behavior.
const (
	PresetTextbook   = "textbook"    // three staggered jobs; FCFS and SJF diverge
	PresetConvoy     = "convoy"      // one long job ahead of many short ones
	PresetStarvation = "starvation"  // a low-priority job behind a stream of urgent ones
	PresetIdleGap    = "idle-gap"    // the CPU must idle between arrivals
	PresetRRRotation = "rr-rotation" // equal jobs that rotate under Round Robin
)

var presets = map[string]func() *WorkloadSpec{
	PresetTextbook:   TextbookWorkload,
	PresetConvoy:     ConvoyWorkload,
	PresetStarvation: StarvationWorkload,
	PresetIdleGap:    IdleGapWorkload,
	PresetRRRotation: RRRotationWorkload,
}

// PresetNames returns the built-in preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of the named built-in workload.
func Preset(name string) (*WorkloadSpec, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; valid presets: %v", name, PresetNames())
	}
	return build(), nil
}

func prio(v int) *int { return &v }

// TextbookWorkload is the classic three-process example.
func TextbookWorkload() *WorkloadSpec {
	return &WorkloadSpec{
		Version: "1",
		Quantum: 2,
		Processes: []ProcessSpec{
			{ID: 1, Name: "P1", Arrival: 0, Burst: 5, Priority: prio(2), Color: "#e06c75"},
			{ID: 2, Name: "P2", Arrival: 1, Burst: 3, Priority: prio(1), Color: "#98c379"},
			{ID: 3, Name: "P3", Arrival: 2, Burst: 1, Priority: prio(3), Color: "#61afef"},
		},
	}
}

// ConvoyWorkload puts a CPU-bound job in front of four short ones.
func ConvoyWorkload() *WorkloadSpec {
	spec := &WorkloadSpec{
		Version: "1",
		Quantum: 3,
		Processes: []ProcessSpec{
			{ID: 1, Name: "batch", Arrival: 0, Burst: 20, Priority: prio(3)},
		},
	}
	for i := 0; i < 4; i++ {
		spec.Processes = append(spec.Processes, ProcessSpec{
			ID: i + 2, Name: fmt.Sprintf("io%d", i+1), Arrival: int64(i + 1), Burst: 2, Priority: prio(1),
		})
	}
	return spec
}

// StarvationWorkload keeps a priority-0 job arriving every few ticks so
// that the priority-5 job runs last under the priority policies.
func StarvationWorkload() *WorkloadSpec {
	spec := &WorkloadSpec{
		Version: "1",
		Quantum: 2,
		Processes: []ProcessSpec{
			{ID: 0, Name: "background", Arrival: 0, Burst: 4, Priority: prio(5)},
		},
	}
	for i := 0; i < 5; i++ {
		spec.Processes = append(spec.Processes, ProcessSpec{
			ID: i + 1, Name: fmt.Sprintf("urgent%d", i+1), Arrival: int64(1 + 3*i), Burst: 3, Priority: prio(0),
		})
	}
	return spec
}

// IdleGapWorkload leaves the CPU idle before the first arrival and between bursts.
func IdleGapWorkload() *WorkloadSpec {
	return &WorkloadSpec{
		Version: "1",
		Quantum: 2,
		Processes: []ProcessSpec{
			{ID: 1, Name: "P1", Arrival: 2, Burst: 3},
			{ID: 2, Name: "P2", Arrival: 9, Burst: 2},
			{ID: 3, Name: "P3", Arrival: 10, Burst: 4},
		},
	}
}

// RRRotationWorkload is four equal jobs arriving together.
func RRRotationWorkload() *WorkloadSpec {
	spec := &WorkloadSpec{Version: "1", Quantum: 2}
	for i := 1; i <= 4; i++ {
		spec.Processes = append(spec.Processes, ProcessSpec{
			ID: i, Name: fmt.Sprintf("P%d", i), Arrival: 0, Burst: 5,
		})
	}
	return spec
}

// ApplyOverrides replaces built-in presets with the given specs, keyed by name.
// New names are added. Every override is validated first.
func ApplyOverrides(overrides map[string]*WorkloadSpec) error {
	for name, spec := range overrides {
		if spec == nil {
			return fmt.Errorf("preset %q: empty override", name)
		}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	for name, spec := range overrides {
		frozen := *spec
		frozen.Processes = append([]ProcessSpec(nil), spec.Processes...)
		presets[name] = func() *WorkloadSpec {
			c := frozen
			c.Processes = append([]ProcessSpec(nil), frozen.Processes...)
			return &c
		}
	}
	return nil
}
