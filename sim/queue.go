// Implements the ReadyQueue used by Round Robin.
// Processes are enqueued on arrival and re-enqueued at the back on quantum expiry.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is a FIFO queue of processes waiting for the CPU.
// Dispatch order is queue order; no comparison-based reselection happens here.
type ReadyQueue struct {
	queue []*Process
}

// Enqueue adds a process to the back of the queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: process must not be nil")
	}
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(p.Label())
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Dequeue removes and returns the process at the front, or nil when empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	p := rq.queue[0]
	rq.queue[0] = nil
	rq.queue = rq.queue[1:]
	return p
}

// IDs returns the process IDs in queue order.
func (rq *ReadyQueue) IDs() []int {
	ids := make([]int, len(rq.queue))
	for i, p := range rq.queue {
		ids[i] = p.ID
	}
	return ids
}

// Contains reports whether a process with id is queued.
func (rq *ReadyQueue) Contains(id int) bool {
	for _, p := range rq.queue {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (rq *ReadyQueue) mustNotContain(p *Process) {
	if rq.Contains(p.ID) {
		panic(fmt.Sprintf("process %d enqueued twice", p.ID))
	}
}
