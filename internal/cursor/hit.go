package cursor

import (
	"math"

	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/trigger"
)

// HitTrigger reports whether the sensing quad swept across t during the last
// tick. A hit stamps the trigger with the tick timestamp. Cursors that were
// not reliable on both of the last two ticks never hit, and neither do
// inactive or latched triggers.
func (c *Cursor) HitTrigger(t *trigger.Trigger) bool {
	if !c.reliable || !c.wasReliable || !t.Active() || t.Latched() {
		return false
	}

	cur := c.toLocal(t.Position().Sub(quadCenter(c.quad)))
	prev := c.toLocal(t.Position().Sub(quadCenter(c.prevQuad)))

	hw := c.width / 2
	if math.Abs(cur.Y) > hw || math.Abs(prev.Y) > hw {
		return false
	}
	if c.depth > 0 {
		hd := c.depth / 2
		if math.Abs(cur.Z) > hd || math.Abs(prev.Z) > hd {
			return false
		}
	}

	crossed := (prev.X > crossEpsilon && cur.X <= crossEpsilon) ||
		(prev.X < -crossEpsilon && cur.X >= -crossEpsilon)
	if !crossed {
		return false
	}
	t.SetLastHit(c.timestamp)
	return true
}

// Collision describes a cursor overlapping another curve.
type Collision struct {
	CurveID  string
	Fraction float64
	Point    geom.Vec3
}

// HitCurve tests the cursor bounds against other. The bound curve, inactive
// curves and cursors with collisions disabled never collide.
func (c *Cursor) HitCurve(other *curve.Curve) (Collision, bool) {
	if !c.collisions || other == nil || !other.Active() || other == c.curve {
		return Collision{}, false
	}
	frac, pt := other.Intersects(c.bounds)
	if frac < 0 {
		return Collision{}, false
	}
	return Collision{CurveID: other.ID, Fraction: frac, Point: pt}, true
}
