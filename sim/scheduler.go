package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/fulfillment-sim/fulfillment-sim/sim/trace"
)

// Scheduler owns the simulation clock and the queue of pending wake-ups.
// Processes suspend by calling ScheduleAfter and are resumed one at a time
// by Run, in non-decreasing wake time and FIFO among equal wake times.
//
// Thread-safety: NOT thread-safe. ScheduleAfter and Run must be called from
// the goroutine driving the simulation.
type Scheduler struct {
	clock   int64
	queue   EventQueue
	nextSeq uint64
	resumed int
	trace   *trace.SimulationTrace
}

// NewScheduler creates a Scheduler at clock 0. st may be nil to disable tracing.
func NewScheduler(st *trace.SimulationTrace) *Scheduler {
	s := &Scheduler{
		queue: make(EventQueue, 0),
		trace: st,
	}
	heap.Init(&s.queue)
	return s
}

// Clock returns the current simulation time.
func (s *Scheduler) Clock() int64 {
	return s.clock
}

// Pending returns the number of wake-ups not yet delivered.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Resumed returns the number of wake-ups delivered so far.
func (s *Scheduler) Resumed() int {
	return s.resumed
}

// ScheduleAfter suspends p until Clock()+delay.
// A negative delay returns ErrInvalidDelay and nothing is enqueued.
func (s *Scheduler) ScheduleAfter(p Process, delay int64) error {
	if delay < 0 {
		return fmt.Errorf("%w: process %s requested %d", ErrInvalidDelay, p.ID(), delay)
	}
	if delay > math.MaxInt64-s.clock {
		return fmt.Errorf("%w: process %s wake time overflows (clock=%d, delay=%d)", ErrInvalidDelay, p.ID(), s.clock, delay)
	}

	ev := &PendingEvent{
		WakeTime: s.clock + delay,
		Seq:      s.nextSeq,
		Process:  p,
	}
	s.nextSeq++
	heap.Push(&s.queue, ev)

	s.trace.RecordSchedule(trace.ScheduleRecord{
		ProcessID: p.ID(),
		Clock:     s.clock,
		WakeTime:  ev.WakeTime,
		Seq:       ev.Seq,
		Pending:   s.queue.Len(),
	})
	logrus.Debugf("[day %05d] %s suspended until day %d (seq %d)", s.clock, p.ID(), ev.WakeTime, ev.Seq)
	return nil
}

// Run resumes pending processes until none remain.
// The clock is advanced to each popped wake time before its process resumes.
// An error returned by a process stops the run and is returned wrapped.
func (s *Scheduler) Run() error {
	for s.queue.Len() > 0 {
		// get the next wake-up
		ev := heap.Pop(&s.queue).(*PendingEvent)
		if ev.WakeTime < s.clock {
			return &InvariantError{What: fmt.Sprintf("clock would move backwards from %d to %d", s.clock, ev.WakeTime)}
		}
		// advance the clock
		s.clock = ev.WakeTime
		s.resumed++

		s.trace.RecordResume(trace.ResumeRecord{
			ProcessID: ev.Process.ID(),
			Clock:     s.clock,
			Seq:       ev.Seq,
		})
		logrus.Debugf("[day %05d] resuming %s (seq %d)", s.clock, ev.Process.ID(), ev.Seq)

		if err := ev.Process.Resume(s.clock); err != nil {
			return fmt.Errorf("resuming %s at day %d: %w", ev.Process.ID(), s.clock, err)
		}
	}
	logrus.Infof("[day %05d] scheduler drained after %d resumes", s.clock, s.resumed)
	return nil
}
