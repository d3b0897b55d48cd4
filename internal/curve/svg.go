package curve

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/inamate/playhead/internal/geom"
)

var ErrPathSyntax = errors.New("path syntax error")

// SetSVG replaces the shape with the points of an SVG path "d" attribute.
// The Y axis is flipped so that up is positive.
func (c *Curve) SetSVG(d string) error {
	pts, err := ParseSVGPath(d)
	if err != nil {
		return err
	}
	c.replacePoints(pts)
	c.Resize(1, -1)
	c.RecomputeBounds(true)
	return nil
}

// SetPolyline replaces the shape with straight segments through points given
// as "x,y x,y ..." (an optional third coordinate is accepted).
func (c *Curve) SetPolyline(data string) error {
	var pts []ControlPoint
	for _, field := range strings.Fields(data) {
		parts := strings.Split(field, ",")
		if len(parts) < 2 || len(parts) > 3 {
			return fmt.Errorf("%w: bad coordinate %q", ErrPathSyntax, field)
		}
		var v [3]float64
		for i, part := range parts {
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return fmt.Errorf("%w: bad coordinate %q", ErrPathSyntax, field)
			}
			v[i] = f
		}
		pts = append(pts, ControlPoint{Pos: geom.Vec3{X: v[0], Y: v[1], Z: v[2]}})
	}
	if len(pts) == 0 {
		return fmt.Errorf("%w: empty polyline", ErrPathSyntax)
	}
	c.replacePoints(pts)
	c.Resize(1, 1)
	c.RecomputeBounds(true)
	return nil
}

// replacePoints starts a fresh point list and inserts pts one by one.
func (c *Curve) replacePoints(pts []ControlPoint) {
	c.SetShape(&PointList{})
	for i, p := range pts {
		c.SetControlPoint(i, p, false)
	}
}

// --- Path parsing ---

type pathBuilder struct {
	pts      []ControlPoint
	cur      geom.Vec3
	start    geom.Vec3
	ctrl     geom.Vec3
	lastCmd  byte
	hasPoint bool
}

func (b *pathBuilder) moveTo(p geom.Vec3) {
	b.pts = append(b.pts, ControlPoint{Pos: p})
	b.cur, b.start = p, p
	b.hasPoint = true
}

func (b *pathBuilder) lineTo(p geom.Vec3) {
	if !b.hasPoint {
		b.moveTo(b.cur)
	}
	b.pts = append(b.pts, ControlPoint{Pos: p})
	b.cur = p
}

func (b *pathBuilder) cubicTo(c1, c2, p geom.Vec3) {
	if !b.hasPoint {
		b.moveTo(b.cur)
	}
	b.pts = append(b.pts, ControlPoint{Pos: p, Handle1: c1.Sub(b.cur), Handle2: c2.Sub(p)})
	b.cur = p
}

func (b *pathBuilder) quadTo(q, p geom.Vec3) {
	c1 := b.cur.Add(q.Sub(b.cur).Scale(2.0 / 3))
	c2 := p.Add(q.Sub(p).Scale(2.0 / 3))
	b.cubicTo(c1, c2, p)
}

// ParseSVGPath converts path data into control points in path coordinates.
func ParseSVGPath(d string) ([]ControlPoint, error) {
	s := &pathScanner{src: d}
	b := &pathBuilder{}
	var cmd byte

	for {
		s.skipSeparators()
		if s.done() {
			break
		}
		if ch := s.src[s.pos]; isCommand(ch) {
			cmd = ch
			s.pos++
		} else if cmd == 0 || cmd|0x20 == 'z' {
			return nil, fmt.Errorf("%w: expected command at offset %d", ErrPathSyntax, s.pos)
		}

		if err := b.apply(cmd, s); err != nil {
			return nil, err
		}
		b.lastCmd = cmd
		// Extra coordinate pairs after a moveto are implicit linetos.
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
	if len(b.pts) == 0 {
		return nil, fmt.Errorf("%w: no points", ErrPathSyntax)
	}
	return b.pts, nil
}

func (b *pathBuilder) apply(cmd byte, s *pathScanner) error {
	rel := cmd >= 'a'
	origin := geom.Vec3{}
	if rel {
		origin = b.cur
	}

	switch cmd | 0x20 {
	case 'z':
		if b.cur != b.start {
			b.lineTo(b.start)
		}
		b.cur = b.start
		b.ctrl = b.cur
		return nil
	case 'm', 'l':
		p, err := s.point()
		if err != nil {
			return err
		}
		p = p.Add(origin)
		if cmd|0x20 == 'm' {
			b.moveTo(p)
		} else {
			b.lineTo(p)
		}
		b.ctrl = b.cur
	case 'h':
		x, err := s.number()
		if err != nil {
			return err
		}
		p := b.cur
		p.X = x + origin.X
		b.lineTo(p)
		b.ctrl = b.cur
	case 'v':
		y, err := s.number()
		if err != nil {
			return err
		}
		p := b.cur
		p.Y = y + origin.Y
		b.lineTo(p)
		b.ctrl = b.cur
	case 'c':
		pts, err := s.points(3)
		if err != nil {
			return err
		}
		c1, c2, p := pts[0].Add(origin), pts[1].Add(origin), pts[2].Add(origin)
		b.cubicTo(c1, c2, p)
		b.ctrl = c2
	case 's':
		pts, err := s.points(2)
		if err != nil {
			return err
		}
		c1 := b.cur
		if last := b.lastCmd | 0x20; last == 'c' || last == 's' {
			c1 = b.cur.Scale(2).Sub(b.ctrl)
		}
		c2, p := pts[0].Add(origin), pts[1].Add(origin)
		b.cubicTo(c1, c2, p)
		b.ctrl = c2
	case 'q':
		pts, err := s.points(2)
		if err != nil {
			return err
		}
		q, p := pts[0].Add(origin), pts[1].Add(origin)
		b.quadTo(q, p)
		b.ctrl = q
	case 't':
		p, err := s.point()
		if err != nil {
			return err
		}
		q := b.cur
		if last := b.lastCmd | 0x20; last == 'q' || last == 't' {
			q = b.cur.Scale(2).Sub(b.ctrl)
		}
		p = p.Add(origin)
		b.quadTo(q, p)
		b.ctrl = q
	case 'a':
		return b.arc(s, origin)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrPathSyntax, cmd)
	}
	return nil
}

func (b *pathBuilder) arc(s *pathScanner, origin geom.Vec3) error {
	rx, err := s.number()
	if err != nil {
		return err
	}
	ry, err := s.number()
	if err != nil {
		return err
	}
	rot, err := s.number()
	if err != nil {
		return err
	}
	large, err := s.flag()
	if err != nil {
		return err
	}
	sweep, err := s.flag()
	if err != nil {
		return err
	}
	p, err := s.point()
	if err != nil {
		return err
	}
	p = p.Add(origin)

	if rx == 0 || ry == 0 {
		b.lineTo(p)
	} else {
		for _, seg := range arcToCubics(b.cur, rx, ry, rot, large, sweep, p) {
			b.cubicTo(seg[0], seg[1], seg[2])
		}
	}
	b.ctrl = b.cur
	return nil
}

// arcToCubics approximates an elliptical arc with cubic segments of at most a
// quarter turn each.
func arcToCubics(from geom.Vec3, rx, ry, rotation float64, large, sweep bool, to geom.Vec3) [][3]geom.Vec3 {
	if from == to {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	phi := rotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx2, dy2 := (from.X-to.X)/2, (from.Y-to.Y)/2
	x1 := cosPhi*dx2 + sinPhi*dy2
	y1 := -sinPhi*dx2 + cosPhi*dy2

	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den != 0 {
		coef = math.Sqrt(math.Max(0, num/den))
	}
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx
	cx := cosPhi*cx1 - sinPhi*cy1 + (from.X+to.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (from.Y+to.Y)/2

	ux, uy := (x1-cx1)/rx, (y1-cy1)/ry
	vx, vy := (-x1-cx1)/rx, (-y1-cy1)/ry
	theta := math.Atan2(uy, ux)
	sweepAngle := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !sweep && sweepAngle > 0 {
		sweepAngle -= 2 * math.Pi
	} else if sweep && sweepAngle < 0 {
		sweepAngle += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(sweepAngle) / (math.Pi / 2)))
	if n == 0 {
		return nil
	}
	delta := sweepAngle / float64(n)
	k := 4.0 / 3 * math.Tan(delta/4)
	m := geom.Translate(cx, cy).Multiply(geom.Rotate(phi)).Multiply(geom.Scale(rx, ry))

	out := make([][3]geom.Vec3, 0, n)
	for i := 0; i < n; i++ {
		a1 := theta + float64(i)*delta
		a2 := a1 + delta
		sin1, cos1 := math.Sincos(a1)
		sin2, cos2 := math.Sincos(a2)
		c1 := geom.Vec3{X: cos1 - k*sin1, Y: sin1 + k*cos1}
		c2 := geom.Vec3{X: cos2 + k*sin2, Y: sin2 - k*cos2}
		end := geom.Vec3{X: cos2, Y: sin2}
		seg := [3]geom.Vec3{m.Apply(c1), m.Apply(c2), m.Apply(end)}
		if i == n-1 {
			seg[2] = to
		}
		out = append(out, seg)
	}
	return out
}

func isCommand(ch byte) bool {
	return strings.IndexByte("MmLlHhVvCcSsQqTtAaZz", ch) >= 0
}

type pathScanner struct {
	src string
	pos int
}

func (s *pathScanner) done() bool { return s.pos >= len(s.src) }

func (s *pathScanner) skipSeparators() {
	for !s.done() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) number() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if !s.done() && (s.src[s.pos] == '-' || s.src[s.pos] == '+') {
		s.pos++
	}
	digits, dot := false, false
scan:
	for !s.done() {
		ch := s.src[s.pos]
		switch {
		case ch >= '0' && ch <= '9':
			digits = true
		case ch == '.' && !dot:
			dot = true
		case (ch == 'e' || ch == 'E') && digits:
			if next := s.pos + 1; next < len(s.src) && (s.src[next] == '-' || s.src[next] == '+') {
				s.pos++
			}
		default:
			break scan
		}
		s.pos++
	}
	if !digits {
		return 0, fmt.Errorf("%w: expected number at offset %d", ErrPathSyntax, start)
	}
	v, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPathSyntax, err)
	}
	return v, nil
}

func (s *pathScanner) flag() (bool, error) {
	s.skipSeparators()
	if s.done() {
		return false, fmt.Errorf("%w: expected flag", ErrPathSyntax)
	}
	switch s.src[s.pos] {
	case '0':
		s.pos++
		return false, nil
	case '1':
		s.pos++
		return true, nil
	}
	return false, fmt.Errorf("%w: expected flag at offset %d", ErrPathSyntax, s.pos)
}

func (s *pathScanner) point() (geom.Vec3, error) {
	x, err := s.number()
	if err != nil {
		return geom.Vec3{}, err
	}
	y, err := s.number()
	if err != nil {
		return geom.Vec3{}, err
	}
	return geom.Vec3{X: x, Y: y}, nil
}

func (s *pathScanner) points(n int) ([]geom.Vec3, error) {
	out := make([]geom.Vec3, n)
	for i := range out {
		p, err := s.point()
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
