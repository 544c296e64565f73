// Package curve implements keyframed float curves, used to map a normalized forward speed to a
// multiplier such as a gravity scale or a jump velocity.
package curve

import (
	"sort"

	"github.com/oomph-ac/locomotion/oerror"
)

// Key is a single keyframe of a Curve.
type Key struct {
	Time  float32 `toml:"time" yaml:"time"`
	Value float32 `toml:"value" yaml:"value"`
}

// Curve is a piecewise linear curve through its keys. Outside the range of its keys, the curve is
// clamped to the value of the first or last key.
type Curve struct {
	Keys []Key `toml:"keys" yaml:"keys"`
}

// Constant returns a curve with the same value everywhere.
func Constant(v float32) Curve {
	return Curve{Keys: []Key{{Time: 0, Value: v}}}
}

// Linear returns a curve going from a at time 0 to b at time 1.
func Linear(a, b float32) Curve {
	return Curve{Keys: []Key{{Time: 0, Value: a}, {Time: 1, Value: b}}}
}

// New returns a curve through the keys passed, sorted by time.
func New(keys ...Key) Curve {
	c := Curve{Keys: append([]Key(nil), keys...)}
	sort.SliceStable(c.Keys, func(i, j int) bool {
		return c.Keys[i].Time < c.Keys[j].Time
	})
	return c
}

// Clone returns a copy of the curve that does not share its keys.
func (c Curve) Clone() Curve {
	if c.Keys == nil {
		return Curve{}
	}
	return Curve{Keys: append([]Key(nil), c.Keys...)}
}

// Evaluate returns the value of the curve at time t. An empty curve evaluates to zero.
func (c Curve) Evaluate(t float32) float32 {
	n := len(c.Keys)
	if n == 0 {
		return 0
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0].Value
	}
	if t >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value
	}

	// First key strictly after t. It exists and is not the first key after the clamps above.
	i := sort.Search(n, func(i int) bool {
		return c.Keys[i].Time > t
	})
	a, b := c.Keys[i-1], c.Keys[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	return a.Value + (b.Value-a.Value)*((t-a.Time)/span)
}

// Validate returns an error if the curve has no keys or its keys are not ordered by time.
func (c Curve) Validate(field string) error {
	if len(c.Keys) == 0 {
		return oerror.InvalidConfig(field, "curve has no keys")
	}
	for i := 1; i < len(c.Keys); i++ {
		if c.Keys[i].Time < c.Keys[i-1].Time {
			return oerror.InvalidConfig(field, "key %d at time %v comes before key %d at time %v", i, c.Keys[i].Time, i-1, c.Keys[i-1].Time)
		}
	}
	return nil
}
