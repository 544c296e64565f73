package game

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// AABBFromDimensions returns a bounding box from the given dimensions, with its origin at the
// centre of the bottom face.
func AABBFromDimensions(width, height float32) cube.BBox {
	h := width / 2
	return cube.Box(
		-h, 0, -h,
		h, height, h,
	)
}

// AABBVectorDistance calculates the distance between an AABB and a vector.
func AABBVectorDistance(a cube.BBox, v mgl32.Vec3) float32 {
	x := math32.Max(a.Min().X()-v.X(), math32.Max(0, v.X()-a.Max().X()))
	y := math32.Max(a.Min().Y()-v.Y(), math32.Max(0, v.Y()-a.Max().Y()))
	z := math32.Max(a.Min().Z()-v.Z(), math32.Max(0, v.Z()-a.Max().Z()))

	dist := math32.Sqrt(x*x + y*y + z*z)
	if math32.IsNaN(dist) {
		dist = 0
	}
	return dist
}

// SphereIntersectsAABB returns true if a sphere touches or overlaps the bounding box.
func SphereIntersectsAABB(a cube.BBox, centre mgl32.Vec3, radius float32) bool {
	return AABBVectorDistance(a, centre) <= radius
}

// BottomCentre returns the centre of the bottom face of a bounding box, which is where the feet of
// a character standing in it are.
func BottomCentre(b cube.BBox) mgl32.Vec3 {
	return mgl32.Vec3{
		(b.Min().X() + b.Max().X()) * 0.5,
		b.Min().Y(),
		(b.Min().Z() + b.Max().Z()) * 0.5,
	}
}

type clipCollideResult struct {
	penetration           float32
	clippedVelocity       mgl32.Vec3
	depenetratingVelocity mgl32.Vec3
}

// BBClipCollide clips the velocity of the moving box so that it does not enter the stationary box.
// If oneWay is true, overlapping boxes are not pushed apart. The penetration depth of an existing
// overlap is written to penetration if it is non-nil.
func BBClipCollide(stationary, moving cube.BBox, vel mgl32.Vec3, oneWay bool, penetration *float32) mgl32.Vec3 {
	result := doBBClipCollide(stationary, moving, vel)
	if penetration != nil {
		*penetration = result.penetration
	}

	if oneWay {
		return result.clippedVelocity
	}
	return result.depenetratingVelocity
}

func doBBClipCollide(stationary, moving cube.BBox, velocity mgl32.Vec3) (result clipCollideResult) {
	result.clippedVelocity = velocity
	result.depenetratingVelocity = velocity

	if BBHasZeroVolume(stationary) {
		return
	}

	axisPenetrations := [3]float32{}
	axisPenetrationsSigned := [3]float32{}
	normalDirs := [3]float32{}
	separatingAxes, separatingAxis := 0, 0
	resultPenetration := float32(math32.MaxFloat32 - 1)

	for i := 0; i < 3; i++ {
		minPenetration := moving.Max()[i] - stationary.Min()[i]
		maxPenetration := stationary.Max()[i] - moving.Min()[i]

		if math32.Abs(minPenetration) <= 1e-7 {
			minPenetration = 0
		}
		if math32.Abs(maxPenetration) <= 1e-7 {
			maxPenetration = 0
		}

		minPositive := math32.Max(0, minPenetration)
		maxPositive := math32.Max(0, maxPenetration)

		if minPositive == 0 {
			axisPenetrationsSigned[i] = minPenetration
			normalDirs[i] = -1
			separatingAxes++
			separatingAxis = i
		} else if maxPositive == 0 {
			axisPenetrationsSigned[i] = maxPenetration
			normalDirs[i] = 1
			separatingAxes++
			separatingAxis = i
		} else if minPositive < maxPositive {
			axisPenetrations[i] = minPositive
			axisPenetrationsSigned[i] = minPositive
			normalDirs[i] = -1
		} else {
			axisPenetrations[i] = maxPositive
			axisPenetrationsSigned[i] = maxPositive
			normalDirs[i] = 1
		}

		if separatingAxes > 1 {
			return
		}
		resultPenetration = math32.Min(resultPenetration, axisPenetrations[i])
	}

	// No separating axes means the boxes already overlap.
	if separatingAxes == 0 {
		result.penetration = resultPenetration
		bestAxis := 0
		for i := 1; i < 3; i++ {
			if axisPenetrations[i] < axisPenetrations[bestAxis] {
				bestAxis = i
			}
		}

		desiredVelocity := axisPenetrations[bestAxis] * normalDirs[bestAxis]
		if desiredVelocity > 0 {
			result.depenetratingVelocity[bestAxis] = math32.Max(desiredVelocity, velocity[bestAxis])
		} else {
			result.depenetratingVelocity[bestAxis] = math32.Min(desiredVelocity, velocity[bestAxis])
		}
		return
	}

	sweptPenetration := axisPenetrationsSigned[separatingAxis] - (normalDirs[separatingAxis] * velocity[separatingAxis])
	if sweptPenetration <= 0 {
		return
	}

	resolvedVelocity := axisPenetrationsSigned[separatingAxis] * normalDirs[separatingAxis]
	result.clippedVelocity[separatingAxis] = resolvedVelocity
	result.depenetratingVelocity[separatingAxis] = resolvedVelocity
	return
}

// BBHasZeroVolume returns true if the bounding box is a single point.
func BBHasZeroVolume(bb cube.BBox) bool {
	return bb.Min() == bb.Max()
}
