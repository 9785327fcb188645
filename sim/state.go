package sim

// ProjectState derives the display state of p at clock, given the current
// runner (NoProcess when idle) and the ready-queue membership.
// Precedence: completed > running > waiting > not-arrived.
// ProjectState never mutates p.
func ProjectState(p Process, clock int64, runningID int, queued map[int]bool) ProcessState {
	switch {
	case p.RemainingTime == 0 && p.Completed:
		return StateCompleted
	case runningID != NoProcess && p.ID == runningID:
		return StateRunning
	case queued[p.ID] || (p.ArrivalTime <= clock && p.RemainingTime > 0):
		return StateWaiting
	default:
		return StateNotArrived
	}
}
