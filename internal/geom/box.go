package geom

// Epsilon is the minimum extent given to degenerate boxes.
const Epsilon = 0.001

// Box3 is an axis-aligned box. Min is the lower corner on every axis.
type Box3 struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxFromPoints returns the smallest box containing a and b.
func BoxFromPoints(a, b Vec3) Box3 {
	return Box3{
		Min: Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)},
		Max: Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)},
	}
}

// Extend grows the box to include p.
func (b Box3) Extend(p Vec3) Box3 {
	return Box3{
		Min: Vec3{min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)},
		Max: Vec3{max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)},
	}
}

func (b Box3) Union(o Box3) Box3 {
	return b.Extend(o.Min).Extend(o.Max)
}

func (b Box3) Translate(d Vec3) Box3 {
	return Box3{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b Box3) Size() Vec3 { return b.Max.Sub(b.Min) }

func (b Box3) Center() Vec3 { return b.Min.Lerp(b.Max, 0.5) }

// Inflate gives every zero-extent axis a size of eps, growing from Min.
func (b Box3) Inflate(eps float64) Box3 {
	if b.Max.X == b.Min.X {
		b.Max.X = b.Min.X + eps
	}
	if b.Max.Y == b.Min.Y {
		b.Max.Y = b.Min.Y + eps
	}
	if b.Max.Z == b.Min.Z {
		b.Max.Z = b.Min.Z + eps
	}
	return b
}

// Intersects reports whether the boxes overlap. Touching faces count.
func (b Box3) Intersects(o Box3) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y &&
		b.Min.Z <= o.Max.Z && o.Min.Z <= b.Max.Z
}

func (b Box3) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
