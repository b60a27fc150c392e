package testutil

import "fmt"

// ScriptedSource replays fixed draws. Float64 and Intn consume their own
// queues in call order and panic when a queue runs dry, so a test states
// exactly which draws it expects.
type ScriptedSource struct {
	Floats []float64
	Ints   []int

	nextFloat int
	nextInt   int
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	if s.nextFloat >= len(s.Floats) {
		panic(fmt.Sprintf("ScriptedSource: Float64 draw %d not scripted", s.nextFloat))
	}
	v := s.Floats[s.nextFloat]
	s.nextFloat++
	return v
}

// Intn returns the next scripted int, which must lie in [0, n).
func (s *ScriptedSource) Intn(n int) int {
	if s.nextInt >= len(s.Ints) {
		panic(fmt.Sprintf("ScriptedSource: Intn draw %d not scripted", s.nextInt))
	}
	v := s.Ints[s.nextInt]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("ScriptedSource: scripted int %d outside [0, %d)", v, n))
	}
	s.nextInt++
	return v
}

// Remaining reports how many scripted floats and ints were not consumed.
func (s *ScriptedSource) Remaining() (floats, ints int) {
	return len(s.Floats) - s.nextFloat, len(s.Ints) - s.nextInt
}
