// Package trace provides scheduler-trace recording for fulfillment runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// ScheduleRecord captures a process registering a wake-up with the scheduler.
type ScheduleRecord struct {
	ProcessID string
	Clock     int64 // scheduler clock when the request was made
	WakeTime  int64
	Seq       uint64 // insertion order, the tie-break among equal wake times
	Pending   int    // pending wake-ups after this one was enqueued
}

// ResumeRecord captures the scheduler resuming a process.
type ResumeRecord struct {
	ProcessID string
	Clock     int64
	Seq       uint64
}

// AbortRecord captures a process aborted before it could emit an outcome.
type AbortRecord struct {
	ProcessID string
	Clock     int64
	Reason    string
}
