package geom

import "math"

// Vec3 is a point or direction in curve space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul multiplies component-wise.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 { return o.Sub(v).Len() }

// Lerp interpolates linearly from v to o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
	}
}

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// CubicBezier evaluates the cubic Bezier p0, p1, p2, p3 at t.
func CubicBezier(p0, p1, p2, p3 Vec3, t float64) Vec3 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Vec3{
		a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
		a*p0.Z + b*p1.Z + c*p2.Z + d*p3.Z,
	}
}

// Angles is an orientation in degrees.
type Angles struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Neg returns the opposite orientation.
func (a Angles) Neg() Angles { return Angles{Yaw: -a.Yaw, Pitch: -a.Pitch} }

// AED is a spherical position: distance, azimuth and elevation in degrees.
type AED struct {
	Distance  float64 `json:"distance"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
}

// Spherical converts p to distance, azimuth and elevation. Azimuth is measured
// from +Y, wrapped to [0, 360).
func Spherical(p Vec3) AED {
	out := AED{Distance: p.Len()}
	if p.X != 0 || p.Y != 0 {
		out.Azimuth = math.Atan2(p.Y, p.X)*180/math.Pi - 90
		for out.Azimuth < 0 {
			out.Azimuth += 360
		}
	}
	if p.Z != 0 {
		out.Elevation = math.Atan2(p.Z, math.Hypot(p.X, p.Y)) * 180 / math.Pi
	}
	return out
}
