package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func procIDs(procs []*Process) []int {
	ids := make([]int, len(procs))
	for i, p := range procs {
		ids[i] = p.ID
	}
	return ids
}

func ptrs(procs []Process) []*Process {
	out := make([]*Process, len(procs))
	for i := range procs {
		out[i] = &procs[i]
	}
	return out
}

func TestFCFSRule_EarliestArrivalThenLowestID(t *testing.T) {
	ready := ptrs([]Process{
		{ID: 3, ArrivalTime: 2},
		{ID: 7, ArrivalTime: 1},
		{ID: 4, ArrivalTime: 1},
	})
	OrderReady(FCFSRule{}, ready)
	assert.Equal(t, []int{4, 7, 3}, procIDs(ready))
}

func TestSJFRule_ShortestBurstThenArrivalThenID(t *testing.T) {
	ready := ptrs([]Process{
		{ID: 1, ArrivalTime: 0, BurstTime: 5, RemainingTime: 1},
		{ID: 2, ArrivalTime: 1, BurstTime: 3},
		{ID: 3, ArrivalTime: 0, BurstTime: 3},
		{ID: 0, ArrivalTime: 0, BurstTime: 3},
	})
	OrderReady(SJFRule{}, ready)
	// Remaining work is ignored: SJF ranks by total burst.
	assert.Equal(t, []int{0, 3, 2, 1}, procIDs(ready))
}

func TestSRTFRule_LeastRemainingThenArrivalThenID(t *testing.T) {
	ready := ptrs([]Process{
		{ID: 1, ArrivalTime: 0, BurstTime: 5, RemainingTime: 1},
		{ID: 2, ArrivalTime: 1, BurstTime: 2, RemainingTime: 2},
		{ID: 3, ArrivalTime: 0, BurstTime: 2, RemainingTime: 2},
	})
	OrderReady(SRTFRule{}, ready)
	assert.Equal(t, []int{1, 3, 2}, procIDs(ready))
}

func TestPriorityRule_UnsetRanksLast(t *testing.T) {
	// GIVEN one unset priority with the earliest arrival
	ready := ptrs([]Process{
		{ID: 1, ArrivalTime: 0},
		{ID: 2, ArrivalTime: 3, Priority: IntPtr(4)},
		{ID: 3, ArrivalTime: 2, Priority: IntPtr(0)},
		{ID: 4, ArrivalTime: 1, Priority: IntPtr(4)},
	})

	// WHEN ordered by priority
	OrderReady(PriorityRule{}, ready)

	// THEN lower numbers win, ties fall to arrival, unset comes last
	assert.Equal(t, []int{3, 4, 2, 1}, procIDs(ready))
}

func TestPriorityRule_TwoUnsetTieFallsThroughToArrival(t *testing.T) {
	a := &Process{ID: 9, ArrivalTime: 0}
	b := &Process{ID: 1, ArrivalTime: 1}
	assert.True(t, PriorityRule{}.Less(a, b))
	assert.False(t, PriorityRule{}.Less(b, a))
	assert.Same(t, a, Select(PriorityRule{}, []*Process{b, a}))
}

func TestSelectionRules_StrictOrder(t *testing.T) {
	// Less must be irreflexive and asymmetric for distinct IDs.
	procs := ptrs([]Process{
		{ID: 1, ArrivalTime: 0, BurstTime: 3, RemainingTime: 3},
		{ID: 2, ArrivalTime: 0, BurstTime: 3, RemainingTime: 3},
		{ID: 3, ArrivalTime: 0, BurstTime: 3, RemainingTime: 3, Priority: IntPtr(1)},
	})
	for _, policy := range AllPolicies() {
		rule := NewSelectionRule(policy)
		for _, a := range procs {
			assert.False(t, rule.Less(a, a), "%s: Less(a,a) must be false", policy)
			for _, b := range procs {
				if a == b {
					continue
				}
				assert.NotEqual(t, rule.Less(a, b), rule.Less(b, a), "%s: exactly one of Less(a,b), Less(b,a)", policy)
			}
		}
	}
}

func TestSelect_EmptyReturnsNil(t *testing.T) {
	assert.Nil(t, Select(FCFSRule{}, nil))
}

func TestSelect_DoesNotMutate(t *testing.T) {
	procs := []Process{{ID: 2, BurstTime: 4, RemainingTime: 4}, {ID: 1, BurstTime: 4, RemainingTime: 2}}
	before := cloneProcs(procs)
	ready := ptrs(procs)
	winner := Select(SRTFRule{}, ready)
	assert.Equal(t, 1, winner.ID)
	assert.Equal(t, before, procs)
	assert.Equal(t, []int{2, 1}, procIDs(ready), "Select must not reorder its input")
}

func TestNewSelectionRule_ValidNames_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		policy Policy
		want   SelectionRule
	}{
		{PolicyFCFS, FCFSRule{}},
		{PolicySJF, SJFRule{}},
		{PolicySRTF, SRTFRule{}},
		{PolicyPriorityNP, PriorityRule{}},
		{PolicyPriorityP, PriorityRule{}},
		{PolicyRoundRobin, ArrivalOrderRule{}},
	}
	for _, tc := range tests {
		assert.IsType(t, tc.want, NewSelectionRule(tc.policy), string(tc.policy))
	}
}

func TestNewSelectionRule_UnknownName_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("NewSelectionRule(\"lottery\"): expected panic, got nil")
		}
	}()
	NewSelectionRule("lottery")
}

func TestReadySet_ExcludesUnarrivedAndFinished(t *testing.T) {
	ws := newWorkingSet(textbookProcs())
	ws[0].RemainingTime = 0
	assert.Equal(t, []int{2}, procIDs(readySet(ws, 1)))
	assert.Equal(t, []int{2, 3}, procIDs(readySet(ws, 2)))
}
