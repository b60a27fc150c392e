package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTraceLevel(t *testing.T) {
	assert.True(t, IsValidTraceLevel("none"))
	assert.True(t, IsValidTraceLevel("events"))
	assert.True(t, IsValidTraceLevel(""))
	assert.False(t, IsValidTraceLevel("decisions"))
}

func TestNewSimulationTrace_NoneIsNil(t *testing.T) {
	assert.Nil(t, NewSimulationTrace(TraceLevelNone))
	assert.Nil(t, NewSimulationTrace(""))
	assert.NotNil(t, NewSimulationTrace(TraceLevelEvents))
}

func TestSimulationTrace_NilReceiver_RecordsNothing(t *testing.T) {
	var st *SimulationTrace
	assert.NotPanics(t, func() {
		st.RecordSchedule(ScheduleRecord{ProcessID: "p"})
		st.RecordResume(ResumeRecord{ProcessID: "p"})
		st.RecordAbort(AbortRecord{ProcessID: "p"})
	})
	assert.Nil(t, st.ResumeOrder())
}

func TestSimulationTrace_RecordsInOrder(t *testing.T) {
	st := NewSimulationTrace(TraceLevelEvents)
	st.RecordResume(ResumeRecord{ProcessID: "b", Clock: 1})
	st.RecordResume(ResumeRecord{ProcessID: "a", Clock: 1})
	st.RecordAbort(AbortRecord{ProcessID: "c", Reason: "negative delay"})

	assert.Equal(t, []string{"b", "a"}, st.ResumeOrder())
	require.Len(t, st.Aborts, 1)
	assert.Equal(t, "negative delay", st.Aborts[0].Reason)
}

func TestSummarize_NilTrace(t *testing.T) {
	s := Summarize(nil)
	require.NotNil(t, s)
	assert.Equal(t, TraceSummary{}, *s)
}

func TestSummarize_CountsAndPeaks(t *testing.T) {
	st := NewSimulationTrace(TraceLevelEvents)
	st.RecordSchedule(ScheduleRecord{ProcessID: "a", WakeTime: 2, Seq: 0, Pending: 1})
	st.RecordSchedule(ScheduleRecord{ProcessID: "b", WakeTime: 2, Seq: 1, Pending: 2})
	st.RecordSchedule(ScheduleRecord{ProcessID: "c", WakeTime: 5, Seq: 2, Pending: 3})
	st.RecordResume(ResumeRecord{ProcessID: "a", Clock: 2, Seq: 0})
	st.RecordResume(ResumeRecord{ProcessID: "b", Clock: 2, Seq: 1})
	st.RecordResume(ResumeRecord{ProcessID: "c", Clock: 5, Seq: 2})
	st.RecordAbort(AbortRecord{ProcessID: "d"})

	s := Summarize(st)

	assert.Equal(t, 3, s.TotalScheduled)
	assert.Equal(t, 3, s.TotalResumed)
	assert.Equal(t, 1, s.TotalAborted)
	assert.Equal(t, 3, s.MaxPending)
	assert.Equal(t, int64(5), s.LastClock)
	assert.Equal(t, 2, s.DistinctTimes)
}
