package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalScheduled int
	TotalResumed   int
	TotalAborted   int
	MaxPending     int   // largest number of wake-ups pending at once
	LastClock      int64 // clock of the final resume
	DistinctTimes  int   // number of distinct clock values at which processes resumed
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil {
		return summary
	}

	summary.TotalScheduled = len(st.Schedules)
	summary.TotalResumed = len(st.Resumes)
	summary.TotalAborted = len(st.Aborts)

	for _, s := range st.Schedules {
		if s.Pending > summary.MaxPending {
			summary.MaxPending = s.Pending
		}
	}

	times := make(map[int64]struct{})
	for _, r := range st.Resumes {
		times[r.Clock] = struct{}{}
		summary.LastClock = r.Clock
	}
	summary.DistinctTimes = len(times)

	return summary
}
