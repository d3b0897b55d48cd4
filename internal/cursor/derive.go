package cursor

import (
	"math"

	"github.com/inamate/playhead/internal/geom"
)

const degToRad = math.Pi / 180

// derive computes spherical and relative coordinates and the sensing quad
// from the current position and angle.
func (c *Cursor) derive(oldQuad [4]geom.Vec3) {
	c.aed = geom.Spherical(c.pos)
	c.relative = c.mapping.Apply(c.pos)
	c.relativeAED = geom.Spherical(c.relative)

	sinP, cosP := math.Sincos(c.angle.Pitch * degToRad)
	sinY, cosY := math.Sincos(c.angle.Yaw * degToRad)
	c.sinPitch, c.cosPitch = -sinP, cosP
	c.sinYaw, c.cosYaw = -sinY, cosY

	hw, hd := c.width/2, c.depth/2
	local := [4]geom.Vec3{
		{X: 0, Y: -hw, Z: -hd},
		{X: 0, Y: hw, Z: -hd},
		{X: 0, Y: hw, Z: hd},
		{X: 0, Y: -hw, Z: hd},
	}
	for i, l := range local {
		x := l.Z*sinP + l.X*cosP
		z := l.Z*cosP - l.X*sinP
		c.quad[i] = geom.Vec3{
			X: x*cosY - l.Y*sinY,
			Y: x*sinY + l.Y*cosY,
			Z: z,
		}.Add(c.pos)
	}

	if c.reliable && c.wasReliable {
		c.prevQuad = oldQuad
	} else {
		c.prevQuad = c.quad
	}

	b := geom.BoxFromPoints(c.quad[0], c.quad[1])
	b = b.Extend(c.quad[2]).Extend(c.quad[3])
	c.bounds = b
}

func quadCenter(q [4]geom.Vec3) geom.Vec3 {
	return q[0].Add(q[1]).Add(q[2]).Add(q[3]).Scale(0.25)
}

// toLocal expresses a world offset in the cursor frame: X forward, Y across
// the quad, Z across its depth.
func (c *Cursor) toLocal(d geom.Vec3) geom.Vec3 {
	r := geom.Vec3{
		X: d.X*c.cosYaw - d.Y*c.sinYaw,
		Y: d.X*c.sinYaw + d.Y*c.cosYaw,
		Z: d.Z,
	}
	return geom.Vec3{
		X: r.Z*c.sinPitch + r.X*c.cosPitch,
		Y: r.Y,
		Z: r.Z*c.cosPitch - r.X*c.sinPitch,
	}
}
