package curve

import "github.com/inamate/playhead/internal/geom"

// smoothTension divides the neighbor vector when deriving smooth handles.
const smoothTension = 5

// ControlPoint is a vertex of a point-list curve.
//
// Handle1 is the first Bezier control of the segment that ends at this point,
// as an offset from the previous point. Handle2 is the second control of that
// segment, as an offset from this point. A segment whose end point has both
// handles zero is a straight line.
type ControlPoint struct {
	Pos     geom.Vec3 `json:"pos"`
	Scale   geom.Vec3 `json:"scale"`
	Handle1 geom.Vec3 `json:"handle1"`
	Handle2 geom.Vec3 `json:"handle2"`
	Smooth  bool      `json:"smooth"`

	length float64
	bounds geom.Box3
}

// Length is the cumulative path length from the first point to this one.
func (p ControlPoint) Length() float64 { return p.length }

// Bounds is the world-space box of the segment ending at this point.
func (p ControlPoint) Bounds() geom.Box3 { return p.bounds }

func (p ControlPoint) linear() bool {
	return p.Handle1.IsZero() && p.Handle2.IsZero()
}

// PointList is a chain of linear or cubic Bezier segments.
type PointList struct {
	Points []ControlPoint `json:"points"`

	// dest holds the inertia targets. nil when inertia is off.
	dest []ControlPoint
}

func NewPointList(points ...ControlPoint) *PointList {
	return &PointList{Points: points}
}

func (*PointList) Kind() Kind { return KindPoints }
func (*PointList) isShape()   {}

func clonePoints(pts []ControlPoint) []ControlPoint {
	out := make([]ControlPoint, len(pts))
	copy(out, pts)
	return out
}

// segmentPoint evaluates the segment from a to b at t in [0, 1].
func segmentPoint(a, b ControlPoint, t float64) geom.Vec3 {
	if b.linear() {
		return a.Pos.Lerp(b.Pos, t)
	}
	return geom.CubicBezier(a.Pos, a.Pos.Add(b.Handle1), b.Pos.Add(b.Handle2), b.Pos, t)
}

// deriveHandles recomputes the handles around every smooth point from its
// neighbors. A list whose first and last points coincide is treated as closed.
func deriveHandles(pts []ControlPoint) {
	n := len(pts)
	if n < 2 {
		return
	}
	closed := pts[0].Pos == pts[n-1].Pos

	for i := range pts {
		if !pts[i].Smooth {
			continue
		}
		switch {
		case i == 0:
			before := pts[0].Pos
			if closed && n > 2 {
				before = pts[n-2].Pos
			}
			pts[1].Handle1 = pts[1].Pos.Sub(before).Scale(1.0 / smoothTension)
		case i == n-1:
			after := pts[n-1].Pos
			if closed && n > 2 {
				after = pts[1].Pos
			}
			pts[i].Handle2 = after.Sub(pts[n-2].Pos).Scale(-1.0 / smoothTension)
		default:
			tangent := pts[i+1].Pos.Sub(pts[i-1].Pos).Scale(1.0 / smoothTension)
			pts[i].Handle2 = tangent.Scale(-1)
			pts[i+1].Handle1 = tangent
		}
	}
}

// Points returns a copy of the control points, or nil for other shapes.
func (c *Curve) Points() []ControlPoint {
	pl, ok := c.shape.(*PointList)
	if !ok {
		return nil
	}
	return clonePoints(pl.Points)
}

func (c *Curve) pointList() *PointList {
	pl, ok := c.shape.(*PointList)
	if !ok {
		pl = &PointList{}
		c.shape = pl
	}
	return pl
}

// SetControlPoint appends p when index is past the end and replaces the point
// at index otherwise. With inertia on, replacing only moves the target and
// Step tweens toward it. Switching from another shape starts a fresh list.
func (c *Curve) SetControlPoint(index int, p ControlPoint, recompute bool) {
	if index < 0 {
		return
	}
	pl := c.pointList()
	p.length, p.bounds = 0, geom.Box3{}

	switch {
	case index >= len(pl.Points):
		pl.Points = append(pl.Points, p)
		if pl.dest != nil {
			pl.dest = append(pl.dest, p)
		}
	case pl.dest != nil:
		pl.dest[index] = p
		deriveHandles(pl.dest)
	default:
		pl.Points[index] = p
	}
	deriveHandles(pl.Points)

	c.dirty = true
	if recompute {
		c.RecomputeBounds(true)
	}
}

// RemoveControlPoint deletes the point at index as long as more than two
// points remain.
func (c *Curve) RemoveControlPoint(index int) bool {
	pl, ok := c.shape.(*PointList)
	if !ok || len(pl.Points) <= 2 || index < 0 || index >= len(pl.Points) {
		return false
	}
	pl.Points = append(pl.Points[:index], pl.Points[index+1:]...)
	if pl.dest != nil {
		pl.dest = append(pl.dest[:index], pl.dest[index+1:]...)
	}
	deriveHandles(pl.Points)
	c.dirty = true
	return true
}

// ShiftControlPoint removes the point at index and slides the chain before it
// (direction < 0) or after it (direction >= 0) onto the gap.
func (c *Curve) ShiftControlPoint(index, direction int) bool {
	pl, ok := c.shape.(*PointList)
	if !ok {
		return false
	}
	n := len(pl.Points)
	if index < 0 || index >= n {
		return false
	}

	if direction < 0 {
		if index < 1 {
			return false
		}
		delta := pl.Points[index].Pos.Sub(pl.Points[index-1].Pos)
		shiftChain(pl.Points, index, 0, index-1, delta)
		pl.Points = append(pl.Points[:index], pl.Points[index+1:]...)
		if pl.dest != nil {
			shiftChain(pl.dest, index, 0, index-1, delta)
			pl.dest = append(pl.dest[:index], pl.dest[index+1:]...)
		}
	} else {
		if index >= n-1 {
			return false
		}
		delta := pl.Points[index].Pos.Sub(pl.Points[index+1].Pos)
		shiftChain(pl.Points, index, index+1, n-1, delta)
		pl.Points = append(pl.Points[:index], pl.Points[index+1:]...)
		if pl.dest != nil {
			shiftChain(pl.dest, index, index+1, n-1, delta)
			pl.dest = append(pl.dest[:index], pl.dest[index+1:]...)
		}
	}
	deriveHandles(pl.Points)
	c.dirty = true
	return true
}

func shiftChain(pts []ControlPoint, skip, from, to int, delta geom.Vec3) {
	for i := from; i <= to && i < len(pts); i++ {
		if i == skip {
			continue
		}
		pts[i].Pos = pts[i].Pos.Add(delta)
	}
}

// TranslateControlPoint moves one point by delta.
func (c *Curve) TranslateControlPoint(index int, delta geom.Vec3) bool {
	pl, ok := c.shape.(*PointList)
	if !ok || index < 0 || index >= len(pl.Points) {
		return false
	}
	target := pl.Points
	if pl.dest != nil {
		target = pl.dest
	}
	p := target[index]
	p.Pos = p.Pos.Add(delta)
	c.SetControlPoint(index, p, false)
	return true
}

// SetInertia sets the tween divisor. Values <= 1 apply edits immediately.
func (c *Curve) SetInertia(factor float64) {
	pl, _ := c.shape.(*PointList)
	switch {
	case factor > 1 && c.inertia <= 1:
		if pl != nil {
			pl.dest = clonePoints(pl.Points)
		}
	case factor <= 1 && c.inertia > 1:
		if pl != nil && pl.dest != nil {
			pl.Points = pl.dest
			pl.dest = nil
			c.dirty = true
		}
	}
	if factor <= 1 {
		factor = 1
	}
	c.inertia = factor
}

// Step moves every point one inertia step toward its target.
func (c *Curve) Step() {
	pl, ok := c.shape.(*PointList)
	if !ok || c.inertia <= 1 || pl.dest == nil {
		return
	}
	k := 1 / c.inertia
	moved := false
	for i := range pl.Points {
		cur, dst := &pl.Points[i], pl.dest[i]
		next := ControlPoint{
			Pos:     cur.Pos.Add(dst.Pos.Sub(cur.Pos).Scale(k)),
			Scale:   cur.Scale.Add(dst.Scale.Sub(cur.Scale).Scale(k)),
			Handle1: cur.Handle1.Add(dst.Handle1.Sub(cur.Handle1).Scale(k)),
			Handle2: cur.Handle2.Add(dst.Handle2.Sub(cur.Handle2).Scale(k)),
			Smooth:  dst.Smooth,
		}
		if next.Pos != cur.Pos || next.Handle1 != cur.Handle1 || next.Handle2 != cur.Handle2 || next.Scale != cur.Scale {
			moved = true
		}
		next.length, next.bounds = cur.length, cur.bounds
		*cur = next
	}
	deriveHandles(pl.Points)
	if moved {
		c.dirty = true
	}
}
