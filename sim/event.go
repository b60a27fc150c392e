package sim

// Process is a suspended unit of work that the Scheduler resumes at its wake time.
type Process interface {
	ID() string
	Resume(now int64) error
}

// PendingEvent is a registered wake-up: resume Process at WakeTime.
// It lives from ScheduleAfter until the Scheduler pops it.
type PendingEvent struct {
	WakeTime int64   // Simulation time at which Process resumes
	Seq      uint64  // Insertion order, the tie-break among equal wake times
	Process  Process // The suspended process
}

// EventQueue implements heap.Interface with deterministic ordering.
// Order by: wake time → insertion sequence (FIFO among ties).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []*PendingEvent

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].WakeTime != eq[j].WakeTime {
		return eq[i].WakeTime < eq[j].WakeTime
	}
	return eq[i].Seq < eq[j].Seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(*PendingEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	*eq = old[0 : n-1]
	return item
}
