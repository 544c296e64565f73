// Package collision declares the Collision Query Provider consumed by the locomotion controllers.
// The controllers never implement collision themselves: they query a Provider bound at setup time.
package collision

import "github.com/go-gl/mathgl/mgl32"

// Mask selects the layers a query tests against.
type Mask uint32

// MaskAll matches every layer.
const MaskAll Mask = ^Mask(0)

// Has returns true if the mask selects any layer of other.
func (m Mask) Has(other Mask) bool {
	return m&other != 0
}

// Flags is the set of sides a move collided on.
type Flags uint8

const (
	// FlagSides is set when the move was blocked horizontally.
	FlagSides Flags = 1 << iota
	// FlagAbove is set when the move was blocked upwards.
	FlagAbove
	// FlagBelow is set when the move was blocked downwards.
	FlagBelow
)

// Has returns true if all the flags in f are set.
func (flags Flags) Has(f Flags) bool {
	return flags&f == f
}

// RigidBody is a handle to a body the character touched during a move.
type RigidBody interface {
	// Kinematic returns true if the body ignores impulses.
	Kinematic() bool
	// AddImpulseAt applies an impulse to the body at a world point.
	AddImpulseAt(impulse, point mgl32.Vec3)
}

// Contact is a single surface touched during a move.
type Contact struct {
	// Point is the world position of the contact.
	Point mgl32.Vec3
	// Normal points away from the touched surface, towards the character.
	Normal mgl32.Vec3
	// Body is the rigid body owning the surface, or nil for static geometry.
	Body RigidBody
}

// Side returns true if the contact is neither directly below nor directly above the character.
func (c Contact) Side() bool {
	return c.Normal.Y() < 0.3 && c.Normal.Y() > -0.3
}

// Result is the outcome of a MoveAndCollide call.
type Result struct {
	Flags    Flags
	Contacts []Contact
	// Moved is the displacement actually applied after collisions were resolved.
	Moved mgl32.Vec3
}

// Provider answers the spatial queries of a single character. Queries are synchronous and in
// memory. A query that finds nothing is a valid answer, never an error.
type Provider interface {
	// Position returns the foot position of the character.
	Position() mgl32.Vec3
	// IsGrounded returns true if ground is found beneath the feet within the skin distance.
	IsGrounded() bool
	// RaycastDown casts a ray straight down from origin and returns the distance to the first hit.
	RaycastDown(origin mgl32.Vec3, maxDistance float32, mask Mask) (float32, bool)
	// OverlapSphere returns true if a sphere at centre overlaps any geometry in the mask.
	OverlapSphere(centre mgl32.Vec3, radius float32, mask Mask) bool
	// MoveAndCollide sweeps the character's volume along displacement and resolves collisions.
	MoveAndCollide(displacement mgl32.Vec3) Result
}
