package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/collision"
	"github.com/oomph-ac/locomotion/game"
)

// Agent is the collision volume of one character in a World. It implements collision.Provider.
// An agent is owned by a single character and must not be moved from several goroutines.
type Agent struct {
	w *World

	pos           mgl32.Vec3
	width, height float32
	skin          float32
	mask          collision.Mask
}

// NewAgent places a character volume with its feet at pos. The agent collides with geometry in
// mask and considers itself grounded when ground is within skin of its feet.
func (w *World) NewAgent(pos mgl32.Vec3, radius, height, skin float32, mask collision.Mask) *Agent {
	assert.IsTrue(radius > 0 && height > 0, "agent volume must be positive, got radius %v and height %v", radius, height)
	assert.IsTrue(skin >= 0, "agent skin must not be negative, got %v", skin)
	return &Agent{
		w:      w,
		pos:    pos,
		width:  radius * 2,
		height: height,
		skin:   skin,
		mask:   mask,
	}
}

// Position returns the foot position of the agent.
func (a *Agent) Position() mgl32.Vec3 {
	return a.pos
}

// Teleport moves the agent's feet to pos without resolving collisions.
func (a *Agent) Teleport(pos mgl32.Vec3) {
	a.pos = pos
}

// BoundingBox returns the current collision volume of the agent.
func (a *Agent) BoundingBox() cube.BBox {
	return game.AABBFromDimensions(a.width, a.height).Translate(a.pos)
}

// IsGrounded returns true if a slab of skin height beneath the agent's feet touches geometry.
func (a *Agent) IsGrounded() bool {
	bb := a.BoundingBox()
	min, max := bb.Min(), bb.Max()
	probe := cube.Box(min.X(), min.Y()-a.skin, min.Z(), max.X(), min.Y(), max.Z())

	a.w.RLock()
	defer a.w.RUnlock()
	return len(a.w.candidates(probe, a.mask)) > 0
}

func (a *Agent) RaycastDown(origin mgl32.Vec3, maxDistance float32, mask collision.Mask) (float32, bool) {
	return a.w.raycastDown(origin, maxDistance, mask)
}

func (a *Agent) OverlapSphere(centre mgl32.Vec3, radius float32, mask collision.Mask) bool {
	return a.w.overlapSphere(centre, radius, mask)
}

// MoveAndCollide moves the agent along displacement, stopping at geometry in its mask. Every box
// that clipped the move is reported as a contact.
func (a *Agent) MoveAndCollide(displacement mgl32.Vec3) collision.Result {
	bb := a.BoundingBox()

	a.w.RLock()
	cands := a.w.candidates(bb.Extend(displacement), a.mask)
	a.w.RUnlock()

	others := make([]cube.BBox, len(cands))
	for i, c := range cands {
		others[i] = c.bb
	}
	moved, hits := clipMove(bb, displacement, others)
	a.pos = a.pos.Add(moved)

	var res collision.Result
	res.Moved = moved
	centre := a.pos.Add(mgl32.Vec3{0, a.height * 0.5})
	for axis, index := range hits {
		if index < 0 {
			continue
		}
		// Negative along the axis of the move: the surface faces back at the agent.
		normal := mgl32.Vec3{}
		normal[axis] = -math32.Copysign(1, displacement[axis])

		point := centre
		switch axis {
		case 1:
			if displacement.Y() < 0 {
				res.Flags |= collision.FlagBelow
				point[1] = a.pos.Y()
			} else {
				res.Flags |= collision.FlagAbove
				point[1] = a.pos.Y() + a.height
			}
		default:
			res.Flags |= collision.FlagSides
			point[axis] -= normal[axis] * a.width * 0.5
		}

		contact := collision.Contact{Point: point, Normal: normal}
		if body := cands[index].body; body != nil {
			contact.Body = body
		}
		res.Contacts = append(res.Contacts, contact)
	}
	return res
}
