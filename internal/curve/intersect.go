package curve

import "github.com/inamate/playhead/internal/geom"

// intersectSteps is the number of micro-segments scanned per segment or per
// unit parameter.
const intersectSteps = 1000

// Intersects scans the curve for the first micro-segment whose box overlaps
// query. It returns the path fraction of that hit and the world-space midpoint
// of the micro-segment, or -1 when nothing overlaps.
func (c *Curve) Intersects(query geom.Box3) (float64, geom.Vec3) {
	query = query.Inflate(geom.Epsilon)
	if !c.bounds.Intersects(query) {
		return -1, geom.Vec3{}
	}

	switch s := c.shape.(type) {
	case *PointList:
		return s.intersects(query, c.position, c.pathLength)
	case *EquationCartesian:
		return c.scanParameter(query)
	case *EquationPolar:
		return c.scanParameter(query)
	case *Ellipse:
		return c.scanParameter(query)
	}
	return -1, geom.Vec3{}
}

func (c *Curve) scanParameter(query geom.Box3) (float64, geom.Vec3) {
	prev := c.QueryPointAt(0, false)
	for k := 1; k <= intersectSteps; k++ {
		p := c.QueryPointAt(float64(k)/intersectSteps, false)
		if hit(prev, p, c.position, query) {
			return float64(k-1) / intersectSteps, prev.Lerp(p, 0.5).Add(c.position)
		}
		prev = p
	}
	return -1, geom.Vec3{}
}

func (pl *PointList) intersects(query geom.Box3, offset geom.Vec3, pathLength float64) (float64, geom.Vec3) {
	pts := pl.Points
	if len(pts) == 1 {
		if pts[0].bounds.Intersects(query) {
			return 0, pts[0].Pos.Add(offset)
		}
		return -1, geom.Vec3{}
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if !b.bounds.Intersects(query) {
			continue
		}
		prev := a.Pos
		for k := 1; k <= intersectSteps; k++ {
			p := segmentPoint(a, b, float64(k)/intersectSteps)
			if hit(prev, p, offset, query) {
				t := float64(k-1) / intersectSteps
				return (a.length + (b.length-a.length)*t) / pathLength, prev.Lerp(p, 0.5).Add(offset)
			}
			prev = p
		}
	}
	return -1, geom.Vec3{}
}

func hit(a, b, offset geom.Vec3, query geom.Box3) bool {
	return geom.BoxFromPoints(a, b).Inflate(geom.Epsilon).Translate(offset).Intersects(query)
}
