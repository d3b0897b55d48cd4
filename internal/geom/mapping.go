package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an axis interval. From may be greater than To.
type Range struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Frame is a per-axis interval triple used as the source or target of a Mapping.
type Frame [3]Range

// Mapping maps points affinely from Source to Target, axis by axis.
type Mapping struct {
	Source Frame `json:"source"`
	Target Frame `json:"target"`
}

// Apply maps p. An axis with an empty source interval maps to the target's From.
func (m Mapping) Apply(p Vec3) Vec3 {
	return Vec3{
		remap(p.X, m.Source[0], m.Target[0]),
		remap(p.Y, m.Source[1], m.Target[1]),
		remap(p.Z, m.Source[2], m.Target[2]),
	}
}

func remap(v float64, src, dst Range) float64 {
	span := src.To - src.From
	if span == 0 {
		return dst.From
	}
	return dst.From + (v-src.From)/span*(dst.To-dst.From)
}

// ParseFrame reads "x0 x1 y0 y1" or "x0 x1 y0 y1 z0 z1". A missing z axis is [0, 1].
func ParseFrame(s string) (Frame, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 && len(fields) != 6 {
		return Frame{}, fmt.Errorf("parse frame %q: want 4 or 6 values, got %d", s, len(fields))
	}
	vals := make([]float64, 6)
	vals[5] = 1
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Frame{}, fmt.Errorf("parse frame %q: %w", s, err)
		}
		vals[i] = v
	}
	return Frame{
		{vals[0], vals[1]},
		{vals[2], vals[3]},
		{vals[4], vals[5]},
	}, nil
}

func (f Frame) String() string {
	return fmt.Sprintf("%g %g %g %g %g %g", f[0].From, f[0].To, f[1].From, f[1].To, f[2].From, f[2].To)
}
