package curve

import (
	"math"

	"github.com/inamate/playhead/internal/geom"
)

// angleStep is the parameter distance used to differentiate position.
const angleStep = 0.001

const radToDeg = 180 / math.Pi

// QueryPointAt returns the local-space point at parameter. When absolute is set
// the parameter is an arc length; otherwise it is a fraction of the path
// length (point lists) or the equation/ellipse parameter in [0, 1].
func (c *Curve) QueryPointAt(parameter float64, absolute bool) geom.Vec3 {
	switch s := c.shape.(type) {
	case *PointList:
		target := parameter
		if !absolute {
			target = parameter * c.pathLength
		}
		return s.pointAtLength(target)
	case *EquationCartesian:
		return s.at(c.normalized(parameter, absolute))
	case *EquationPolar:
		return s.at(c.normalized(parameter, absolute))
	case *Ellipse:
		p := 2 * math.Pi * c.normalized(parameter, absolute)
		return geom.Vec3{X: s.HalfWidth * math.Cos(p), Y: s.HalfHeight * math.Sin(p)}
	}
	return geom.Vec3{}
}

func (c *Curve) normalized(parameter float64, absolute bool) float64 {
	if absolute {
		return parameter / c.pathLength
	}
	return parameter
}

func (pl *PointList) pointAtLength(target float64) geom.Vec3 {
	pts := pl.Points
	n := len(pts)
	switch n {
	case 0:
		return geom.Vec3{}
	case 1:
		return pts[0].Pos
	}

	idx := n - 2
	for i := 1; i < n; i++ {
		if pts[i].length >= target {
			idx = i - 1
			break
		}
	}

	start, end := pts[idx].length, pts[idx+1].length
	t := 0.0
	if end-start != 0 {
		t = (target - start) / (end - start)
	}
	t = math.Max(0, math.Min(1, t))
	return segmentPoint(pts[idx], pts[idx+1], t)
}

// QueryAngleAt returns the travel heading at parameter, derived from the
// position a small step behind it. Near the start the step is taken forward.
func (c *Curve) QueryAngleAt(parameter float64, absolute bool) geom.Angles {
	if _, ok := c.shape.(*Ellipse); ok {
		p := c.normalized(parameter, absolute)
		return geom.Angles{Yaw: -((2 * math.Pi * p) + math.Pi/2) * radToDeg}
	}

	lo, hi := parameter-angleStep, parameter
	if lo < 0 {
		lo, hi = parameter, parameter+angleStep
	}
	d := c.QueryPointAt(lo, absolute).Sub(c.QueryPointAt(hi, absolute))
	return geom.Angles{
		Yaw:   math.Atan2(d.X, d.Y)*radToDeg + 90,
		Pitch: math.Atan2(math.Sqrt(d.X*d.X+d.Y*d.Y), d.Z)*radToDeg + 90 + 180,
	}
}
