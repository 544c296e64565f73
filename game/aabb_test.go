package game

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

func TestBBClipCollideStopsOnFloor(t *testing.T) {
	floor := cube.Box(-5, -1, -5, 5, 0, 5)
	body := AABBFromDimensions(0.6, 1.8).Translate(mgl32.Vec3{0, 1, 0})

	vel := BBClipCollide(floor, body, mgl32.Vec3{0, -1.5, 0}, false, nil)
	approxEqual(t, vel.Y(), -1, 1e-5, "clipped y")

	vel = BBClipCollide(floor, body, mgl32.Vec3{0, -0.5, 0}, false, nil)
	approxEqual(t, vel.Y(), -0.5, 1e-5, "free y")
}

func TestBBClipCollideSlidesAlongFloor(t *testing.T) {
	floor := cube.Box(-5, -1, -5, 5, 0, 5)
	body := AABBFromDimensions(0.6, 1.8)

	vel := BBClipCollide(floor, body, mgl32.Vec3{0.4, 0, 0}, false, nil)
	approxEqual(t, vel.X(), 0.4, 1e-5, "x")
}

func TestBBClipCollideWall(t *testing.T) {
	wall := cube.Box(1, 0, -5, 2, 3, 5)
	body := AABBFromDimensions(0.6, 1.8)

	vel := BBClipCollide(wall, body, mgl32.Vec3{2, 0, 0}, false, nil)
	approxEqual(t, vel.X(), 0.7, 1e-5, "x")
}

func TestSphereIntersectsAABB(t *testing.T) {
	box := cube.Box(-1, -1, -1, 1, 0, 1)
	if !SphereIntersectsAABB(box, mgl32.Vec3{0, 0.25, 0}, 0.3) {
		t.Fatalf("expected sphere resting in box to intersect")
	}
	if SphereIntersectsAABB(box, mgl32.Vec3{0, 0.5, 0}, 0.3) {
		t.Fatalf("expected sphere above box not to intersect")
	}
	approxEqual(t, AABBVectorDistance(box, mgl32.Vec3{0, 2, 0}), 2, 1e-5, "distance")
}
