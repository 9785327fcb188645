package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

var (
	// ErrInvalidInput wraps every precondition violation on processes or options.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownPolicy is returned for policy names that do not resolve.
	ErrUnknownPolicy = errors.New("unknown policy")
	// ErrTickCeiling signals that a run crossed its safety ceiling with processes
	// still unfinished. It indicates a selection defect, not legitimate idle time.
	ErrTickCeiling = errors.New("tick ceiling exceeded")
)

// ceilingFactor scales the total burst time when deriving the default ceiling.
const ceilingFactor = 4

// Options groups per-run engine parameters.
type Options struct {
	Quantum    int              // Round Robin time quantum (>= 1); ignored by other policies
	MaxTicks   int64            // safety ceiling; 0 derives one from the workload
	TraceLevel trace.TraceLevel // "none" (default) or "decisions"
}

// DefaultMaxTicks derives the safety ceiling for procs: the latest arrival plus
// several times the total burst, so legitimate idle gaps never trip it.
// The result saturates at math.MaxInt64.
func DefaultMaxTicks(procs []Process) int64 {
	var maxArrival, totalBurst int64
	for i := range procs {
		maxArrival = max(maxArrival, procs[i].ArrivalTime)
		totalBurst = addSaturating(totalBurst, procs[i].BurstTime)
	}
	return ceilingFor(maxArrival, totalBurst)
}

// CompletionBound is the latest tick by which every process in procs can have
// completed: the latest arrival plus the total burst. The CPU never idles while
// work is ready, so no policy finishes later. Saturates at math.MaxInt64.
func CompletionBound(procs []Process) int64 {
	var maxArrival, totalBurst int64
	for i := range procs {
		maxArrival = max(maxArrival, procs[i].ArrivalTime)
		totalBurst = addSaturating(totalBurst, procs[i].BurstTime)
	}
	return addSaturating(maxArrival, totalBurst)
}

// defaultMaxTicks is DefaultMaxTicks over a working set.
func defaultMaxTicks(ws []*Process) int64 {
	var maxArrival, totalBurst int64
	for _, p := range ws {
		maxArrival = max(maxArrival, p.ArrivalTime)
		totalBurst = addSaturating(totalBurst, p.BurstTime)
	}
	return ceilingFor(maxArrival, totalBurst)
}

func ceilingFor(maxArrival, totalBurst int64) int64 {
	scaled := int64(math.MaxInt64)
	if totalBurst <= math.MaxInt64/ceilingFactor {
		scaled = ceilingFactor * totalBurst
	}
	return addSaturating(addSaturating(maxArrival, scaled), 1)
}

// addSaturating adds two non-negative values, clamping at math.MaxInt64.
func addSaturating(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// ValidateProcesses checks the input contract. Values are never coerced.
func ValidateProcesses(procs []Process) error {
	seen := make(map[int]bool, len(procs))
	for i, p := range procs {
		if p.ID < 0 {
			return fmt.Errorf("%w: process[%d] id must be non-negative, got %d", ErrInvalidInput, i, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate process id %d", ErrInvalidInput, p.ID)
		}
		seen[p.ID] = true
		if p.ArrivalTime < 0 {
			return fmt.Errorf("%w: process %d arrival time must be non-negative, got %d", ErrInvalidInput, p.ID, p.ArrivalTime)
		}
		if p.BurstTime <= 0 {
			return fmt.Errorf("%w: process %d burst time must be positive, got %d", ErrInvalidInput, p.ID, p.BurstTime)
		}
		if p.Priority != nil && *p.Priority < 0 {
			return fmt.Errorf("%w: process %d priority must be non-negative, got %d", ErrInvalidInput, p.ID, *p.Priority)
		}
	}
	return nil
}

// ValidateOptions checks the policy name and the options it needs.
func ValidateOptions(policy Policy, opts Options) error {
	if !ValidPolicies[policy] {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
	if policy.UsesQuantum() && opts.Quantum < 1 {
		return fmt.Errorf("%w: time quantum must be >= 1, got %d", ErrInvalidInput, opts.Quantum)
	}
	if opts.MaxTicks < 0 {
		return fmt.Errorf("%w: max ticks must be non-negative, got %d", ErrInvalidInput, opts.MaxTicks)
	}
	if !trace.IsValidTraceLevel(string(opts.TraceLevel)) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidInput, opts.TraceLevel)
	}
	return nil
}

func validate(policy Policy, procs []Process, opts Options) error {
	if err := ValidateOptions(policy, opts); err != nil {
		return err
	}
	return ValidateProcesses(procs)
}

func ceilingError(policy Policy, clock int64, ws []*Process) error {
	var pending []int
	for _, p := range ws {
		if !p.Completed {
			pending = append(pending, p.ID)
		}
	}
	sort.Ints(pending)
	ids := make([]string, len(pending))
	for i, id := range pending {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Errorf("%w: policy %s reached tick %d with unreachable processes [%s]",
		ErrTickCeiling, policy, clock, strings.Join(ids, ", "))
}
