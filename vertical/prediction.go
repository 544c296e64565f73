package vertical

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GetPredictedFallDistance returns the distance the character will fall before landing. Ground
// within the grounding distance is found with a single ray, anything further with a trajectory
// forecast. It returns +Inf if no landing is found.
func (c *Controller) GetPredictedFallDistance(state *MotionState, forwardSpeed float32) float32 {
	pos := c.Provider.Position()
	if dist, ok := c.Provider.RaycastDown(pos, c.Profile.GroundingDistance, c.Options.GroundMask); ok {
		state.PredictedFallDistance = dist
		return dist
	}
	if !c.UpdatePredictedLandingPosition(state, forwardSpeed) {
		return math32.Inf(1)
	}
	return state.PredictedFallDistance
}

// UpdatePredictedLandingPosition forecasts the fall of the character in fixed steps, from its feet
// and cached ground velocity under the falling gravity curve, and records the first step where a
// sphere at the bottom of its volume touches ground. It returns false and clears the prediction if
// no step within the horizon lands.
func (c *Controller) UpdatePredictedLandingPosition(state *MotionState, forwardSpeed float32) bool {
	p, opts := c.Profile, c.Options
	start := c.Provider.Position()
	gravity := p.Gravity * p.Falling.Evaluate(forwardSpeed)
	step := opts.PredictionStepTime
	up := mgl32.Vec3{0, opts.Radius, 0}

	pos, airTime := start, state.FallTime
	for i := 0; i < opts.PredictionSteps; i++ {
		airTime += step
		v := math32.Max(gravity*airTime, p.TerminalVelocity)
		prev := pos
		pos = pos.Add(mgl32.Vec3{state.CachedGroundVelocity.X(), v, state.CachedGroundVelocity.Z()}.Mul(step))
		if !c.Provider.OverlapSphere(pos.Add(up), opts.Radius, opts.GroundMask) {
			continue
		}

		// Settle the landing on the surface crossed during this step where one can be found.
		landing := pos
		if dist, ok := c.Provider.RaycastDown(prev, prev.Y()-pos.Y(), opts.GroundMask); ok {
			landing[1] = prev.Y() - dist
		}
		state.PredictedLandingPosition = landing
		state.HasPredictedLanding = true
		state.PredictedFallDistance = start.Y() - landing.Y()
		c.debugf("predicted landing at %v after %d steps", landing, i+1)
		return true
	}
	state.ClearPrediction()
	return false
}
