package curve

import (
	"fmt"
	"math"

	"github.com/inamate/playhead/internal/geom"
)

const (
	DefaultEquationSamples = 400
	defaultParamValue      = 0.5
	defaultParamCount      = 5
)

var equationConstants = map[string]float64{
	"PI":         math.Pi,
	"TWO_PI":     2 * math.Pi,
	"THIRD_PI":   math.Pi / 3,
	"QUARTER_PI": math.Pi / 4,
	"HALF_PI":    math.Pi / 2,
	"SQRT1_2":    math.Sqrt2 / 2,
	"SQRT2":      math.Sqrt2,
	"E":          math.E,
	"LN2":        math.Ln2,
	"LN10":       math.Ln10,
	"LOG2E":      math.Log2E,
	"LOG10E":     math.Log10E,
}

// Equation is the state shared by both equation shapes. The expression reads
// the variable t in [0, 1] and named parameters, and yields three values.
type Equation struct {
	Text    string
	Samples int

	params map[string]*float64
	t      float64
	eval   Evaluator
	valid  bool
	err    error
}

func newEquation(text string) Equation {
	e := Equation{
		Text:    text,
		Samples: DefaultEquationSamples,
		params:  make(map[string]*float64, defaultParamCount),
	}
	for i := 1; i <= defaultParamCount; i++ {
		v := defaultParamValue
		e.params[fmt.Sprintf("param%d", i)] = &v
	}
	return e
}

// EquationCartesian yields (x, y, z) directly.
type EquationCartesian struct{ Equation }

// EquationPolar yields (radius, polar angle, azimuth).
type EquationPolar struct{ Equation }

func NewEquationCartesian(text string) *EquationCartesian {
	return &EquationCartesian{Equation: newEquation(text)}
}

func NewEquationPolar(text string) *EquationPolar {
	return &EquationPolar{Equation: newEquation(text)}
}

func (*EquationCartesian) Kind() Kind { return KindEquationCartesian }
func (*EquationCartesian) isShape()   {}
func (*EquationPolar) Kind() Kind     { return KindEquationPolar }
func (*EquationPolar) isShape()       {}

func (e *Equation) Valid() bool { return e.valid }

// Err is the last compile or evaluation error.
func (e *Equation) Err() error { return e.err }

// Params returns a copy of the parameter table.
func (e *Equation) Params() map[string]float64 {
	out := make(map[string]float64, len(e.params))
	for k, v := range e.params {
		out[k] = *v
	}
	return out
}

func (e *Equation) bind(ev Evaluator) error {
	if e.params == nil {
		*e = newEquation(e.Text)
	}
	if e.Samples <= 0 {
		e.Samples = DefaultEquationSamples
	}
	e.eval = ev
	for name, v := range equationConstants {
		ev.DefineConstant(name, v)
	}
	ev.DefineVariable("t", &e.t)
	for name, ref := range e.params {
		ev.DefineVariable(name, ref)
	}
	return e.compile()
}

func (e *Equation) compile() error {
	e.valid = false
	if err := e.eval.SetExpression(e.Text); err != nil {
		e.err = fmt.Errorf("%w: %w", ErrInvalidEquation, err)
		return e.err
	}
	e.t = 0
	if _, err := e.eval.Evaluate(3); err != nil {
		e.err = fmt.Errorf("%w: %w", ErrInvalidEquation, err)
		return e.err
	}
	e.valid = true
	e.err = nil
	return nil
}

// at evaluates the raw expression triple. Evaluation failure invalidates the
// equation and yields the zero vector.
func (e *Equation) at(t float64) geom.Vec3 {
	if !e.valid {
		return geom.Vec3{}
	}
	e.t = t
	out, err := e.eval.Evaluate(3)
	if err != nil {
		e.valid = false
		e.err = fmt.Errorf("%w: %w", ErrInvalidEquation, err)
		return geom.Vec3{}
	}
	return geom.Vec3{X: out[0], Y: out[1], Z: out[2]}
}

func (s *EquationCartesian) at(t float64) geom.Vec3 { return s.Equation.at(t) }

func (s *EquationPolar) at(t float64) geom.Vec3 {
	v := s.Equation.at(t)
	r, theta, phi := v.X, v.Y, v.Z
	return geom.Vec3{
		X: r * math.Sin(theta) * math.Cos(phi),
		Y: r * math.Cos(theta),
		Z: r * math.Sin(theta) * math.Sin(phi),
	}
}

func (c *Curve) equation() *Equation {
	switch s := c.shape.(type) {
	case *EquationCartesian:
		return &s.Equation
	case *EquationPolar:
		return &s.Equation
	}
	return nil
}

// SetEquation switches to an equation shape of the given kind. Parameters of a
// previous equation carry over.
func (c *Curve) SetEquation(kind Kind, text string) error {
	eq := newEquation(text)
	if prev := c.equation(); prev != nil {
		eq.params = make(map[string]*float64, len(prev.params))
		for k, v := range prev.params {
			val := *v
			eq.params[k] = &val
		}
		eq.Samples = prev.Samples
	}

	switch kind {
	case KindEquationCartesian:
		return c.SetShape(&EquationCartesian{Equation: eq})
	case KindEquationPolar:
		return c.SetShape(&EquationPolar{Equation: eq})
	}
	return fmt.Errorf("set equation: unsupported kind %q", kind)
}

// SetEquationParam sets a named parameter and revalidates the expression.
func (c *Curve) SetEquationParam(name string, value float64) error {
	eq := c.equation()
	if eq == nil {
		return fmt.Errorf("set equation param: curve is %s", c.Kind())
	}
	if ref, ok := eq.params[name]; ok {
		*ref = value
	} else {
		v := value
		eq.params[name] = &v
		eq.eval.DefineVariable(name, &v)
	}
	c.dirty = true
	return eq.compile()
}

// SetEquationSamples sets the number of polyline samples used for outlines.
func (c *Curve) SetEquationSamples(n int) {
	if eq := c.equation(); eq != nil && n > 0 {
		eq.Samples = n
	}
}

// EquationInfo describes the active equation for read-only consumers.
type EquationInfo struct {
	Text    string             `json:"text"`
	Params  map[string]float64 `json:"params"`
	Samples int                `json:"samples"`
	Valid   bool               `json:"valid"`
}

// EquationInfo returns nil when the curve is not an equation.
func (c *Curve) EquationInfo() *EquationInfo {
	eq := c.equation()
	if eq == nil {
		return nil
	}
	return &EquationInfo{Text: eq.Text, Params: eq.Params(), Samples: eq.Samples, Valid: eq.valid}
}
