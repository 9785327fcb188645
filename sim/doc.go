// Package sim provides the CPU scheduling simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - process.go: Process lifecycle (not-arrived → waiting → running → completed) and metrics
//   - scheduler.go: the Selection Rule Table, one comparator per policy
//   - machine.go: the per-tick state machine shared by both engines
//   - batch.go: Run, the batch engine returning one AlgorithmResult
//   - stepper.go: Stepper, the pull-based engine yielding one TickEvent per tick
//
// # Architecture
//
// Both engines take a private deep copy of the caller's processes and consume
// the same SelectionRule, so their final metrics always agree. Non-preemptive
// batch runs advance the clock by a whole burst at a time; preemptive and
// Round Robin runs, and every Stepper, advance one tick at a time.
//
// Sub-packages:
//   - sim/trace/: decision trace recording (dispatch, preemption, expiry, completion)
//   - sim/workload/: workload files, CSV conversion and presets
//
// # Key Interfaces
//
//   - SelectionRule: strict ordering of ready processes for a policy
//
// Timelines are compressed by TimelineBuilder; display states come from
// ProjectState, which is pure.
package sim
