package sim

import (
	"fmt"
	"sort"
)

// GanttEntry is one maximal uninterrupted run of a process on the CPU, [Start, End).
type GanttEntry struct {
	ProcessID int   `json:"process_id" yaml:"process_id"`
	Start     int64 `json:"start" yaml:"start"`
	End       int64 `json:"end" yaml:"end"`
}

// Duration returns End - Start.
func (g GanttEntry) Duration() int64 {
	return g.End - g.Start
}

// TickMark records who held the CPU for one tick.
type TickMark struct {
	ProcessID int
	Idle      bool
}

// RunMark and IdleMark build TickMarks.
func RunMark(id int) TickMark { return TickMark{ProcessID: id} }
func IdleMark() TickMark      { return TickMark{ProcessID: NoProcess, Idle: true} }

// TimelineBuilder compresses a tick-by-tick trace into Gantt segments.
// Consecutive ticks for the same process merge; an idle tick or a different
// process closes the open segment.
type TimelineBuilder struct {
	clock   int64
	open    bool
	current GanttEntry
	entries []GanttEntry
}

// Run records that process id held the CPU for the next ticks ticks.
func (tb *TimelineBuilder) Run(id int, ticks int64) {
	if ticks <= 0 {
		return
	}
	if tb.open && tb.current.ProcessID != id {
		tb.close()
	}
	if !tb.open {
		tb.open = true
		tb.current = GanttEntry{ProcessID: id, Start: tb.clock}
	}
	tb.clock += ticks
	tb.current.End = tb.clock
}

// Idle records ticks idle ticks. Idle time never produces a segment.
func (tb *TimelineBuilder) Idle(ticks int64) {
	if ticks <= 0 {
		return
	}
	tb.close()
	tb.clock += ticks
}

// Mark records a single tick.
func (tb *TimelineBuilder) Mark(m TickMark) {
	if m.Idle {
		tb.Idle(1)
		return
	}
	tb.Run(m.ProcessID, 1)
}

// Clock returns the number of ticks recorded so far.
func (tb *TimelineBuilder) Clock() int64 {
	return tb.clock
}

// Flush closes the open segment and returns the timeline.
func (tb *TimelineBuilder) Flush() []GanttEntry {
	tb.close()
	out := make([]GanttEntry, len(tb.entries))
	copy(out, tb.entries)
	return out
}

func (tb *TimelineBuilder) close() {
	if tb.open {
		tb.entries = append(tb.entries, tb.current)
		tb.open = false
	}
}

// BuildTimeline compresses marks, where marks[t] is the holder of tick t.
func BuildTimeline(marks []TickMark) []GanttEntry {
	var tb TimelineBuilder
	for _, m := range marks {
		tb.Mark(m)
	}
	return tb.Flush()
}

// ValidateTimeline checks that segments are well-formed, never overlap, and
// that every process's segments sum exactly to its burst time.
func ValidateTimeline(timeline []GanttEntry, procs []Process) error {
	sorted := make([]GanttEntry, len(timeline))
	copy(sorted, timeline)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	for i, g := range sorted {
		if g.Start >= g.End {
			return fmt.Errorf("segment %d for process %d is empty: [%d,%d)", i, g.ProcessID, g.Start, g.End)
		}
		if i > 0 && sorted[i-1].End > g.Start {
			return fmt.Errorf("segments overlap: process %d [%d,%d) and process %d [%d,%d)",
				sorted[i-1].ProcessID, sorted[i-1].Start, sorted[i-1].End, g.ProcessID, g.Start, g.End)
		}
	}

	sums := make(map[int]int64, len(procs))
	for _, g := range timeline {
		sums[g.ProcessID] += g.Duration()
	}
	for _, p := range procs {
		if sums[p.ID] != p.BurstTime {
			return fmt.Errorf("process %d: timeline holds %d ticks, burst is %d", p.ID, sums[p.ID], p.BurstTime)
		}
		delete(sums, p.ID)
	}
	for id := range sums {
		return fmt.Errorf("timeline references unknown process %d", id)
	}
	return nil
}
