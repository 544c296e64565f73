package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// directionEpsilon is the squared length under which a direction is treated as having no heading.
const directionEpsilon = 1e-8

// WrapYaw wraps an angle in degrees into the range (-180, 180].
func WrapYaw(deg float32) float32 {
	deg = math32.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	return deg
}

// DeltaAngle returns the shortest signed difference in degrees to rotate from current to target.
func DeltaAngle(current, target float32) float32 {
	return WrapYaw(target - current)
}

// MoveTowardsAngle rotates current towards target by at most maxDelta degrees, taking the shortest
// way around. The result is wrapped.
func MoveTowardsAngle(current, target, maxDelta float32) float32 {
	delta := DeltaAngle(current, target)
	if math32.Abs(delta) <= maxDelta {
		return WrapYaw(target)
	}
	return WrapYaw(current + math32.Copysign(maxDelta, delta))
}

// YawFromDirection returns the yaw in degrees of a world direction, measured from +Z towards +X.
// The vertical component is ignored. ok is false if the direction has no horizontal length.
func YawFromDirection(dir mgl32.Vec3) (yaw float32, ok bool) {
	if Vec3HzDistSqr(dir) < directionEpsilon {
		return 0, false
	}
	return mgl32.RadToDeg(math32.Atan2(dir.X(), dir.Z())), true
}

// DirectionFromYaw returns the horizontal unit direction for the yaw passed.
func DirectionFromYaw(yaw float32) mgl32.Vec3 {
	rad := mgl32.DegToRad(yaw)
	return mgl32.Vec3{math32.Sin(rad), 0, math32.Cos(rad)}
}

// RightFromYaw returns the horizontal unit direction pointing to the right of the yaw passed.
func RightFromYaw(yaw float32) mgl32.Vec3 {
	return DirectionFromYaw(yaw + 90)
}

// SignedAngle2D returns the signed angle in degrees from one 2D vector to another, positive when
// rotating clockwise (from +Y towards +X). Zero vectors yield zero.
func SignedAngle2D(from, to mgl32.Vec2) float32 {
	if from.LenSqr() < directionEpsilon || to.LenSqr() < directionEpsilon {
		return 0
	}
	return WrapYaw(mgl32.RadToDeg(math32.Atan2(to.X(), to.Y()) - math32.Atan2(from.X(), from.Y())))
}

// Angle2D returns the unsigned angle in degrees between two 2D vectors. ok is false if either
// vector has no length, in which case no angle exists.
func Angle2D(a, b mgl32.Vec2) (angle float32, ok bool) {
	la, lb := a.Len(), b.Len()
	if la*la < directionEpsilon || lb*lb < directionEpsilon {
		return 0, false
	}
	cos := ClampFloat(a.Dot(b)/(la*lb), -1, 1)
	return mgl32.RadToDeg(math32.Acos(cos)), true
}

// Lerp linearly interpolates between a and b. t is not clamped.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float32) float32 {
	return ClampFloat(v, 0, 1)
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	}
	return math32.Min(num, max)
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Z()*vec3.Z()
}

// Horizontal returns the vector with its vertical component removed.
func Horizontal(vec3 mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{vec3.X(), 0, vec3.Z()}
}

// ClampMagnitude2D scales v down so that its length does not exceed max.
func ClampMagnitude2D(v mgl32.Vec2, max float32) mgl32.Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}
