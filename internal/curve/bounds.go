package curve

import (
	"math"

	"github.com/inamate/playhead/internal/geom"
)

// Sampling steps per segment or per unit parameter.
const (
	coarseSegmentSteps  = 10
	fineSegmentSteps    = 100
	coarseEquationSteps = 20
	fineEquationSteps   = 100
)

// RecomputeBounds refreshes the cached bounding box and, when forcePathLength
// is set, the path length and per-point cumulative lengths.
func (c *Curve) RecomputeBounds(forcePathLength bool) {
	var (
		box    geom.Box3
		length float64
	)

	switch s := c.shape.(type) {
	case *PointList:
		box, length = s.recompute(c.position, forcePathLength)
	case *EquationCartesian:
		box, length = sampleBounds(s.at, forcePathLength)
	case *EquationPolar:
		box, length = sampleBounds(s.at, forcePathLength)
	case *Ellipse:
		w, h := s.HalfWidth, s.HalfHeight
		box = geom.BoxFromPoints(geom.Vec3{X: -w, Y: -h}, geom.Vec3{X: w, Y: h})
		length = math.Pi * math.Sqrt(0.5*(4*w*w+4*h*h))
	}

	c.bounds = box.Inflate(geom.Epsilon).Translate(c.position)
	if forcePathLength {
		if length == 0 {
			length = 1
		}
		c.pathLength = length
	}
	c.dirty = false
}

func sampleBounds(at func(float64) geom.Vec3, withLength bool) (geom.Box3, float64) {
	steps := coarseEquationSteps
	if withLength {
		steps = fineEquationSteps
	}
	prev := at(0)
	box := geom.BoxFromPoints(prev, prev)
	length := 0.0
	for k := 1; k <= steps; k++ {
		p := at(float64(k) / float64(steps))
		box = box.Extend(p)
		length += prev.Dist(p)
		prev = p
	}
	return box, length
}

func (pl *PointList) recompute(offset geom.Vec3, withLength bool) (geom.Box3, float64) {
	pts := pl.Points
	if len(pts) == 0 {
		return geom.Box3{}, 0
	}

	steps := coarseSegmentSteps
	if withLength {
		steps = fineSegmentSteps
	}

	first := pts[0].Pos
	box := geom.BoxFromPoints(first, first)
	pts[0].bounds = box.Inflate(geom.Epsilon).Translate(offset)
	if withLength {
		pts[0].length = 0
	}

	total := 0.0
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := geom.BoxFromPoints(a.Pos, b.Pos)
		if b.linear() {
			total += a.Pos.Dist(b.Pos)
		} else {
			prev := a.Pos
			for k := 1; k <= steps; k++ {
				p := segmentPoint(a, b, float64(k)/float64(steps))
				seg = seg.Extend(p)
				total += prev.Dist(p)
				prev = p
			}
		}
		if withLength {
			pts[i].length = total
		}
		pts[i].bounds = seg.Inflate(geom.Epsilon).Translate(offset)
		box = box.Union(seg)
	}
	return box, total
}
