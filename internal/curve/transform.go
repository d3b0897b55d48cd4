package curve

import (
	"math"

	"github.com/inamate/playhead/internal/geom"
)

const (
	outlineSegmentSteps = 20
	outlineEllipseSteps = 64
)

// Translate moves every control point by d. Ellipse and equation shapes move
// their curve position instead.
func (c *Curve) Translate(d geom.Vec3) {
	switch s := c.shape.(type) {
	case *PointList:
		for i := range s.Points {
			s.Points[i].Pos = s.Points[i].Pos.Add(d)
		}
		for i := range s.dest {
			s.dest[i].Pos = s.dest[i].Pos.Add(d)
		}
	case *EquationCartesian, *EquationPolar, *Ellipse:
		c.position = c.position.Add(d)
	}
	c.dirty = true
}

// Resize scales the shape in X and Y. Equations cannot be resized.
func (c *Curve) Resize(fx, fy float64) {
	f := geom.Vec3{X: fx, Y: fy, Z: 1}
	switch s := c.shape.(type) {
	case *PointList:
		scalePoints(s.Points, f)
		scalePoints(s.dest, f)
	case *Ellipse:
		s.HalfWidth *= math.Abs(fx)
		s.HalfHeight *= math.Abs(fy)
	case *EquationCartesian, *EquationPolar:
		return
	}
	c.dirty = true
}

func scalePoints(pts []ControlPoint, f geom.Vec3) {
	for i := range pts {
		pts[i].Pos = pts[i].Pos.Mul(f)
		pts[i].Handle1 = pts[i].Handle1.Mul(f)
		pts[i].Handle2 = pts[i].Handle2.Mul(f)
	}
}

// ResizeTo scales the shape so its bounding box measures width by height.
func (c *Curve) ResizeTo(width, height float64) {
	c.Update()
	size := c.bounds.Size()
	fx, fy := 1.0, 1.0
	if size.X > geom.Epsilon {
		fx = width / size.X
	}
	if size.Y > geom.Epsilon {
		fy = height / size.Y
	}
	c.Resize(fx, fy)
}

// Resample replaces the shape with n+1 points taken at evenly spaced
// parameters of the current shape.
func (c *Curve) Resample(n int, smooth bool) {
	if n < 1 {
		n = 1
	}
	c.Update()

	pts := make([]ControlPoint, n+1)
	for k := 0; k <= n; k++ {
		pts[k] = ControlPoint{
			Pos:    c.QueryPointAt(float64(k)/float64(n), false),
			Smooth: smooth,
		}
	}
	c.SetShape(NewPointList(pts...))
	c.RecomputeBounds(true)
}

// Outline samples the shape as a world-space polyline for drawing.
func (c *Curve) Outline() []geom.Vec3 {
	var out []geom.Vec3
	switch s := c.shape.(type) {
	case *PointList:
		for i, p := range s.Points {
			if i == 0 {
				out = append(out, p.Pos)
				continue
			}
			if p.linear() {
				out = append(out, p.Pos)
				continue
			}
			for k := 1; k <= outlineSegmentSteps; k++ {
				out = append(out, segmentPoint(s.Points[i-1], p, float64(k)/outlineSegmentSteps))
			}
		}
	case *EquationCartesian:
		out = sampleOutline(s.at, s.Samples)
	case *EquationPolar:
		out = sampleOutline(s.at, s.Samples)
	case *Ellipse:
		out = sampleOutline(func(t float64) geom.Vec3 { return c.QueryPointAt(t, false) }, outlineEllipseSteps)
	}
	for i := range out {
		out[i] = out[i].Add(c.position)
	}
	return out
}

func sampleOutline(at func(float64) geom.Vec3, n int) []geom.Vec3 {
	out := make([]geom.Vec3, n+1)
	for k := 0; k <= n; k++ {
		out[k] = at(float64(k) / float64(n))
	}
	return out
}
