// Package world is an in-memory collision world. It serves as the Collision Query Provider for
// characters through Agent, and integrates the dynamic bodies characters push around.
package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/collision"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/sasha-s/go-deadlock"
)

const (
	// LayerGround is the layer of static level geometry.
	LayerGround collision.Mask = 1 << iota
	// LayerProps is the layer of dynamic bodies.
	LayerProps
)

// Options configure the simulation of dynamic bodies.
type Options struct {
	// Gravity is the vertical acceleration applied to dynamic bodies.
	Gravity float32
	// Friction is the fraction of horizontal body velocity removed per second while grounded.
	Friction float32
}

// Static is a piece of immovable geometry.
type Static struct {
	BBox  cube.BBox
	Layer collision.Mask
}

type World struct {
	opts   Options
	static []Static
	bodies []*Body

	deadlock.RWMutex
}

// New returns an empty world.
func New(opts Options) *World {
	return &World{opts: opts}
}

// AddStatic adds immovable geometry to the world.
func (w *World) AddStatic(bb cube.BBox, layer collision.Mask) {
	w.Lock()
	defer w.Unlock()
	w.static = append(w.static, Static{BBox: bb, Layer: layer})
}

// AddBody adds a dynamic body to the world. A mass of zero or below makes the body kinematic.
func (w *World) AddBody(bb cube.BBox, mass float32) *Body {
	b := &Body{bb: bb, layer: LayerProps}
	if mass > 0 {
		b.invMass = 1 / mass
	}

	w.Lock()
	defer w.Unlock()
	w.bodies = append(w.bodies, b)
	return b
}

// Bodies returns the dynamic bodies of the world.
func (w *World) Bodies() []*Body {
	w.RLock()
	defer w.RUnlock()
	return append([]*Body(nil), w.bodies...)
}

// Step integrates every non-kinematic body over dt seconds. Bodies collide with static geometry
// and with each other.
func (w *World) Step(dt float32) {
	w.Lock()
	defer w.Unlock()

	for _, b := range w.bodies {
		if b.Kinematic() {
			continue
		}

		b.mu.Lock()
		vel := b.vel
		vel[1] += w.opts.Gravity * dt
		b.mu.Unlock()

		others := utils.GetBBoxList()
		area := b.bb.Extend(vel.Mul(dt))
		for _, s := range w.static {
			if s.BBox.IntersectsWith(area) {
				*others = append(*others, s.BBox)
			}
		}
		for _, o := range w.bodies {
			if o != b && o.bb.IntersectsWith(area) {
				*others = append(*others, o.bb)
			}
		}

		moved, _ := clipMove(b.bb, vel.Mul(dt), *others)
		utils.PutBBoxList(others)
		b.bb = b.bb.Translate(moved)

		b.mu.Lock()
		grounded := vel[1] < 0 && moved[1] > vel[1]*dt
		if moved[1] != vel[1]*dt {
			vel[1] = 0
		}
		if moved[0] != vel[0]*dt {
			vel[0] = 0
		}
		if moved[2] != vel[2]*dt {
			vel[2] = 0
		}
		if grounded {
			damp := math32.Max(0, 1-w.opts.Friction*dt)
			vel[0] *= damp
			vel[2] *= damp
		}
		b.vel = vel
		b.mu.Unlock()
	}
}

// candidate is a box a move may collide with, and the body owning it if any.
type candidate struct {
	bb   cube.BBox
	body *Body
}

// candidates returns every box in the mask intersecting area. The read lock must be held.
func (w *World) candidates(area cube.BBox, mask collision.Mask) []candidate {
	var list []candidate
	for _, s := range w.static {
		if mask.Has(s.Layer) && s.BBox.IntersectsWith(area) {
			list = append(list, candidate{bb: s.BBox})
		}
	}
	for _, b := range w.bodies {
		if mask.Has(b.layer) && b.bb.IntersectsWith(area) {
			list = append(list, candidate{bb: b.bb, body: b})
		}
	}
	return list
}

// boxes appends every box in the mask to list. The read lock must be held.
func (w *World) boxes(list *[]cube.BBox, mask collision.Mask) {
	for _, s := range w.static {
		if mask.Has(s.Layer) {
			*list = append(*list, s.BBox)
		}
	}
	for _, b := range w.bodies {
		if mask.Has(b.layer) {
			*list = append(*list, b.bb)
		}
	}
}

// raycastDown returns the distance from origin down to the closest box top beneath it.
func (w *World) raycastDown(origin mgl32.Vec3, maxDistance float32, mask collision.Mask) (float32, bool) {
	w.RLock()
	list := utils.GetBBoxList()
	w.boxes(list, mask)
	w.RUnlock()
	defer utils.PutBBoxList(list)

	best, found := maxDistance, false
	for _, bb := range *list {
		min, max := bb.Min(), bb.Max()
		if origin.X() < min.X() || origin.X() > max.X() || origin.Z() < min.Z() || origin.Z() > max.Z() {
			continue
		}
		if origin.Y() < min.Y() {
			continue
		}
		dist := math32.Max(0, origin.Y()-max.Y())
		if dist <= best {
			best, found = dist, true
		}
	}
	return best, found
}

// overlapSphere returns true if any box in the mask overlaps the sphere.
func (w *World) overlapSphere(centre mgl32.Vec3, radius float32, mask collision.Mask) bool {
	w.RLock()
	defer w.RUnlock()

	list := utils.GetBBoxList()
	defer utils.PutBBoxList(list)
	w.boxes(list, mask)
	for _, bb := range *list {
		if game.SphereIntersectsAABB(bb, centre, radius) {
			return true
		}
	}
	return false
}

// clipMove resolves a displacement of bb against others, in Y then X then Z order. It returns the
// displacement left after collisions and, per axis, the index of the last box that clipped it.
func clipMove(bb cube.BBox, vel mgl32.Vec3, others []cube.BBox) (mgl32.Vec3, [3]int) {
	hits := [3]int{-1, -1, -1}

	yVel := mgl32.Vec3{0, vel.Y()}
	for index := len(others) - 1; index >= 0; index-- {
		before := yVel
		yVel = game.BBClipCollide(others[index], bb, yVel, false, nil)
		if yVel != before {
			hits[1] = index
		}
	}
	bb = bb.Translate(yVel)

	xVel := mgl32.Vec3{vel.X()}
	for index := len(others) - 1; index >= 0; index-- {
		before := xVel
		xVel = game.BBClipCollide(others[index], bb, xVel, false, nil)
		if xVel != before {
			hits[0] = index
		}
	}
	bb = bb.Translate(xVel)

	zVel := mgl32.Vec3{0, 0, vel.Z()}
	for index := len(others) - 1; index >= 0; index-- {
		before := zVel
		zVel = game.BBClipCollide(others[index], bb, zVel, false, nil)
		if zVel != before {
			hits[2] = index
		}
	}
	return yVel.Add(xVel).Add(zVel), hits
}
