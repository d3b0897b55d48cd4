// Package curve implements the parametric paths that cursors travel along.
//
// A Curve holds exactly one Shape: a list of Bezier control points, a Cartesian
// or polar equation, or an ellipse. Queries read cached path length and bounds,
// so callers run Update (or RecomputeBounds) after edits and before the next
// round of queries.
package curve

import (
	"errors"

	"github.com/inamate/playhead/internal/expression"
	"github.com/inamate/playhead/internal/geom"
)

var (
	ErrInvalidEquation = errors.New("invalid equation")
	ErrNoShape         = errors.New("no shape")
)

type Kind string

const (
	KindPoints            Kind = "points"
	KindEquationCartesian Kind = "equationCartesian"
	KindEquationPolar     Kind = "equationPolar"
	KindEllipse           Kind = "ellipse"
)

// Shape is one of *PointList, *EquationCartesian, *EquationPolar or *Ellipse.
type Shape interface {
	Kind() Kind
	isShape()
}

// Ellipse is centered on the curve position and lies in the XY plane.
type Ellipse struct {
	HalfWidth  float64 `json:"halfWidth"`
	HalfHeight float64 `json:"halfHeight"`
}

func NewEllipse(halfWidth, halfHeight float64) *Ellipse {
	return &Ellipse{HalfWidth: halfWidth, HalfHeight: halfHeight}
}

func (*Ellipse) Kind() Kind { return KindEllipse }
func (*Ellipse) isShape()   {}

// Evaluator is the expression capability equation shapes depend on.
type Evaluator interface {
	DefineConstant(name string, value float64)
	DefineVariable(name string, ref *float64)
	SetExpression(text string) error
	Evaluate(arity int) ([]float64, error)
}

type Option func(*Curve)

// WithEvaluator replaces the expression evaluator used by equation shapes.
func WithEvaluator(factory func() Evaluator) Option {
	return func(c *Curve) { c.newEvaluator = factory }
}

type Curve struct {
	ID string

	position   geom.Vec3
	shape      Shape
	pathLength float64
	bounds     geom.Box3
	dirty      bool
	active     bool
	removed    bool
	inertia    float64

	newEvaluator func() Evaluator
}

// New creates an empty point-list curve.
func New(id string, opts ...Option) *Curve {
	c := &Curve{
		ID:         id,
		shape:      &PointList{},
		pathLength: 1,
		dirty:      true,
		active:     true,
		inertia:    1,
		newEvaluator: func() Evaluator {
			return expression.New()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Curve) Kind() Kind       { return c.shape.Kind() }
func (c *Curve) Shape() Shape     { return c.shape }
func (c *Curve) Dirty() bool      { return c.dirty }
func (c *Curve) MarkDirty()       { c.dirty = true }
func (c *Curve) Active() bool     { return c.active }
func (c *Curve) Removed() bool    { return c.removed }
func (c *Curve) Inertia() float64 { return c.inertia }

func (c *Curve) SetActive(active bool) { c.active = active }

// MarkRemoved flags the curve as deleted. Cursors holding it drop the reference
// on their next tick.
func (c *Curve) MarkRemoved() {
	c.removed = true
	c.active = false
}

// PathLength is the cached total length. It is always positive.
func (c *Curve) PathLength() float64 { return c.pathLength }

// Bounds is the cached world-space bounding box.
func (c *Curve) Bounds() geom.Box3 { return c.bounds }

func (c *Curve) Position() geom.Vec3 { return c.position }

func (c *Curve) SetPosition(p geom.Vec3) {
	c.position = p
	c.dirty = true
}

// SetShape replaces the current shape. Equation shapes are compiled here; a
// compile failure still installs the shape, marked invalid.
func (c *Curve) SetShape(s Shape) error {
	var err error
	switch s := s.(type) {
	case *PointList:
		s.dest = nil
		deriveHandles(s.Points)
		if c.inertia > 1 {
			s.dest = clonePoints(s.Points)
		}
	case *EquationCartesian:
		err = s.bind(c.newEvaluator())
	case *EquationPolar:
		err = s.bind(c.newEvaluator())
	case *Ellipse:
	default:
		return ErrNoShape
	}
	c.shape = s
	c.dirty = true
	return err
}

// Update recomputes bounds and path length if anything changed since the last
// recompute.
func (c *Curve) Update() {
	if c.dirty {
		c.RecomputeBounds(true)
	}
}
