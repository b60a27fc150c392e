package trace

// TraceLevel controls the verbosity of scheduler tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures every schedule, resume and abort.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// SimulationTrace collects scheduler records during a run.
// A nil *SimulationTrace is valid and records nothing.
type SimulationTrace struct {
	Level     TraceLevel
	Schedules []ScheduleRecord
	Resumes   []ResumeRecord
	Aborts    []AbortRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// Returns nil for TraceLevelNone so callers can pass it through unconditionally.
func NewSimulationTrace(level TraceLevel) *SimulationTrace {
	if level == TraceLevelNone || level == "" {
		return nil
	}
	return &SimulationTrace{
		Level:     level,
		Schedules: make([]ScheduleRecord, 0),
		Resumes:   make([]ResumeRecord, 0),
		Aborts:    make([]AbortRecord, 0),
	}
}

// RecordSchedule appends a schedule record.
func (st *SimulationTrace) RecordSchedule(record ScheduleRecord) {
	if st == nil {
		return
	}
	st.Schedules = append(st.Schedules, record)
}

// RecordResume appends a resume record.
func (st *SimulationTrace) RecordResume(record ResumeRecord) {
	if st == nil {
		return
	}
	st.Resumes = append(st.Resumes, record)
}

// RecordAbort appends an abort record.
func (st *SimulationTrace) RecordAbort(record AbortRecord) {
	if st == nil {
		return
	}
	st.Aborts = append(st.Aborts, record)
}

// ResumeOrder returns process IDs in the order they were resumed.
func (st *SimulationTrace) ResumeOrder() []string {
	if st == nil {
		return nil
	}
	ids := make([]string, len(st.Resumes))
	for i, r := range st.Resumes {
		ids[i] = r.ProcessID
	}
	return ids
}
