package input

// Step holds a frame for a number of ticks.
type Step struct {
	Ticks int
	Frame Frame
}

// Scripted replays a fixed list of steps. Discrete events of a step fire on its first tick only.
// After the script ends, the zero frame is returned.
type Scripted struct {
	steps  []Step
	index  int
	played int
	camera Camera
}

// NewScripted returns a source replaying steps. Frames without a camera forward are given one
// from look input integrated by an internal camera.
func NewScripted(steps ...Step) *Scripted {
	return &Scripted{steps: steps}
}

// Done returns true once every step has been played.
func (s *Scripted) Done() bool {
	return s.index >= len(s.steps)
}

func (s *Scripted) Poll(int64) Frame {
	for s.index < len(s.steps) && s.played >= s.steps[s.index].Ticks {
		s.index++
		s.played = 0
	}
	if s.Done() {
		return s.camera.Apply(Frame{})
	}

	f := s.steps[s.index].Frame
	if s.played > 0 {
		f.JumpPressed = false
		f.StrafeStarted, f.StrafeEnded = false, false
		f.SprintStarted, f.SprintEnded = false, false
	}
	s.played++
	return s.camera.Apply(f)
}
