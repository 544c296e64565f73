package animation

import "github.com/go-gl/mathgl/mgl32"

// Scripted is a Layer that completes every turn after a fixed number of polls, spreading the turn
// angle evenly over them. A TurnTicks of zero or below never completes a turn. It records every
// parameter set it receives.
type Scripted struct {
	TurnTicks int
	// RootVelocity is the root motion produced per tick.
	RootVelocity mgl32.Vec3
	// Overshoot is added to the total rotation reported for each turn, mimicking animation drift.
	Overshoot float32

	Params []Params
	Turns  []float32

	turning   bool
	angle     float32
	remaining int
}

func (s *Scripted) SetParams(p Params) {
	s.Params = append(s.Params, p)
}

// Last returns the most recent parameter set.
func (s *Scripted) Last() (Params, bool) {
	if len(s.Params) == 0 {
		return Params{}, false
	}
	return s.Params[len(s.Params)-1], true
}

func (s *Scripted) BeginTurn(angle float32) {
	s.Turns = append(s.Turns, angle)
	s.turning = true
	s.angle = angle + s.Overshoot
	s.remaining = s.TurnTicks
}

// Turning returns true while a turn is playing.
func (s *Scripted) Turning() bool {
	return s.turning
}

func (s *Scripted) PollTurnMotion() (float32, bool) {
	if !s.turning || s.TurnTicks <= 0 {
		return 0, false
	}
	s.remaining--
	delta := s.angle / float32(s.TurnTicks)
	if s.remaining <= 0 {
		s.turning = false
		return delta, true
	}
	return delta, false
}

func (s *Scripted) RootMotionDelta() mgl32.Vec3 {
	return s.RootVelocity
}
