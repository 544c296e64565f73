package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/collision"
	"github.com/sasha-s/go-deadlock"
)

// Body is a dynamic box in a World. It implements collision.RigidBody.
type Body struct {
	bb      cube.BBox
	layer   collision.Mask
	invMass float32

	vel mgl32.Vec3
	mu  deadlock.Mutex
}

// Kinematic returns true if the body has no finite mass and ignores impulses.
func (b *Body) Kinematic() bool {
	return b.invMass == 0
}

// AddImpulseAt applies an impulse to the body. Bodies do not rotate, so the point only matters
// to callers that log it.
func (b *Body) AddImpulseAt(impulse, _ mgl32.Vec3) {
	if b.Kinematic() {
		return
	}
	b.mu.Lock()
	b.vel = b.vel.Add(impulse.Mul(b.invMass))
	b.mu.Unlock()
}

// Velocity returns the current velocity of the body.
func (b *Body) Velocity() mgl32.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vel
}

// BoundingBox returns the box of the body. It must not be called concurrently with World.Step.
func (b *Body) BoundingBox() cube.BBox {
	return b.bb
}
