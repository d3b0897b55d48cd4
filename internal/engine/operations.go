package engine

import (
	"fmt"
	"image"

	"github.com/inamate/playhead/internal/cursor"
	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/trigger"
)

// Operation types.
const (
	OpCurveCreate         = "curve.create"
	OpCurveDelete         = "curve.delete"
	OpCurvePosition       = "curve.position"
	OpCurveActive         = "curve.active"
	OpCurvePointSet       = "curve.point.set"
	OpCurvePointRemove    = "curve.point.remove"
	OpCurvePointShift     = "curve.point.shift"
	OpCurvePointTranslate = "curve.point.translate"
	OpCurveEllipse        = "curve.ellipse"
	OpCurveEquation       = "curve.equation"
	OpCurveEquationParam  = "curve.equation.param"
	OpCurveSVG            = "curve.svg"
	OpCurvePolyline       = "curve.polyline"
	OpCurveText           = "curve.text"
	OpCurveImage          = "curve.image"
	OpCurveTranslate      = "curve.translate"
	OpCurveResize         = "curve.resize"
	OpCurveResizeTo       = "curve.resizeTo"
	OpCurveResample       = "curve.resample"
	OpCurveInertia        = "curve.inertia"

	OpCursorCreate     = "cursor.create"
	OpCursorDelete     = "cursor.delete"
	OpCursorBind       = "cursor.bind"
	OpCursorTarget     = "cursor.target"
	OpCursorSpeed      = "cursor.speed"
	OpCursorOffsets    = "cursor.offsets"
	OpCursorSize       = "cursor.size"
	OpCursorFrames     = "cursor.frames"
	OpCursorEasing     = "cursor.easing"
	OpCursorCollisions = "cursor.collisions"
	OpCursorLockLength = "cursor.lockLength"
	OpCursorReset      = "cursor.reset"

	OpTriggerCreate   = "trigger.create"
	OpTriggerDelete   = "trigger.delete"
	OpTriggerPosition = "trigger.position"
	OpTriggerActive   = "trigger.active"
)

// Operation is a queued scene edit. Target names the object being edited;
// create operations may leave it empty to have an id assigned.
type Operation struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`

	Position *geom.Vec3 `json:"position,omitempty"`
	Delta    *geom.Vec3 `json:"delta,omitempty"`
	Active   *bool      `json:"active,omitempty"`
	Value    *float64   `json:"value,omitempty"`

	// For curve.create and curve.point.*
	Points    []curve.ControlPoint `json:"points,omitempty"`
	Point     *curve.ControlPoint  `json:"point,omitempty"`
	Index     int                  `json:"index,omitempty"`
	Direction int                  `json:"direction,omitempty"`

	// For curve shape operations
	Ellipse   *curve.Ellipse `json:"ellipse,omitempty"`
	Equation  *EquationSpec  `json:"equation,omitempty"`
	Text      string         `json:"text,omitempty"`
	Family    string         `json:"family,omitempty"`
	AssetID   string         `json:"assetId,omitempty"`
	Threshold float64        `json:"threshold,omitempty"`
	Name      string         `json:"name,omitempty"`

	// For curve.resize, curve.resizeTo and cursor.size
	Size *Size `json:"size,omitempty"`

	// For curve.resample
	Count  int  `json:"count,omitempty"`
	Smooth bool `json:"smooth,omitempty"`

	// For cursor operations
	CurveID    string        `json:"curveId,omitempty"`
	Speeds     []float64     `json:"speeds,omitempty"`
	TimeFactor *float64      `json:"timeFactor,omitempty"`
	Offsets    *Offsets      `json:"offsets,omitempty"`
	Source     string        `json:"source,omitempty"`
	Dest       string        `json:"dest,omitempty"`
	Easing     cursor.Easing `json:"easing,omitempty"`

	img    image.Image
	frames *[2]geom.Frame
}

type EquationSpec struct {
	Kind    curve.Kind         `json:"kind"`
	Text    string             `json:"text"`
	Params  map[string]float64 `json:"params,omitempty"`
	Samples int                `json:"samples,omitempty"`
}

// Size is a pair of extents. Curve resizes read it as X and Y factors or
// dimensions; cursor.size reads it as width and depth.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Offsets struct {
	Initial float64 `json:"initial"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// applyOperationLocked applies op to the scene. The caller holds e.mu.
func (e *Engine) applyOperationLocked(op Operation) error {
	switch op.Type {
	case OpCurveCreate:
		return e.applyCurveCreate(op)
	case OpCurveDelete:
		c, ok := e.curves.remove(op.Target)
		if !ok {
			return fmt.Errorf("curve not found: %s", op.Target)
		}
		c.MarkRemoved()
		return nil
	case OpCursorCreate:
		return e.applyCursorCreate(op)
	case OpCursorDelete:
		if _, ok := e.cursors.remove(op.Target); !ok {
			return fmt.Errorf("cursor not found: %s", op.Target)
		}
		e.removed = append(e.removed, op.Target)
		return nil
	case OpTriggerCreate:
		pos := geom.Vec3{}
		if op.Position != nil {
			pos = *op.Position
		}
		e.triggers.put(op.Target, trigger.New(op.Target, pos))
		return nil
	case OpTriggerDelete:
		if _, ok := e.triggers.remove(op.Target); !ok {
			return fmt.Errorf("trigger not found: %s", op.Target)
		}
		return nil
	}

	switch kindOf(op.Type) {
	case kindCurve:
		c, ok := e.curves.get(op.Target)
		if !ok {
			return fmt.Errorf("curve not found: %s", op.Target)
		}
		return e.applyCurveEdit(c, op)
	case kindCursor:
		c, ok := e.cursors.get(op.Target)
		if !ok {
			return fmt.Errorf("cursor not found: %s", op.Target)
		}
		return e.applyCursorEdit(c, op)
	case kindTrigger:
		t, ok := e.triggers.get(op.Target)
		if !ok {
			return fmt.Errorf("trigger not found: %s", op.Target)
		}
		return applyTriggerEdit(t, op)
	}
	return fmt.Errorf("unknown operation type: %s", op.Type)
}

func (e *Engine) applyCurveCreate(op Operation) error {
	c := curve.New(op.Target, e.curveOpts...)
	if op.Position != nil {
		c.SetPosition(*op.Position)
	}
	for i, p := range op.Points {
		c.SetControlPoint(i, p, false)
	}
	if op.Ellipse != nil {
		if err := c.SetShape(curve.NewEllipse(op.Ellipse.HalfWidth, op.Ellipse.HalfHeight)); err != nil {
			return err
		}
	}
	e.curves.put(op.Target, c)
	if op.Equation != nil {
		// The curve exists even when the expression does not compile.
		return setEquation(c, op.Equation)
	}
	return nil
}

// setEquation installs the equation and its parameters. The error reflects
// the last compile, after every parameter is defined.
func setEquation(c *curve.Curve, eq *EquationSpec) error {
	err := c.SetEquation(eq.Kind, eq.Text)
	for name, v := range eq.Params {
		err = c.SetEquationParam(name, v)
	}
	if eq.Samples > 0 {
		c.SetEquationSamples(eq.Samples)
	}
	return err
}

func (e *Engine) applyCurveEdit(c *curve.Curve, op Operation) error {
	switch op.Type {
	case OpCurvePosition:
		c.SetPosition(*op.Position)
	case OpCurveActive:
		c.SetActive(*op.Active)
	case OpCurvePointSet:
		c.SetControlPoint(op.Index, *op.Point, false)
	case OpCurvePointRemove:
		c.RemoveControlPoint(op.Index)
	case OpCurvePointShift:
		c.ShiftControlPoint(op.Index, op.Direction)
	case OpCurvePointTranslate:
		c.TranslateControlPoint(op.Index, *op.Delta)
	case OpCurveEllipse:
		return c.SetShape(curve.NewEllipse(op.Ellipse.HalfWidth, op.Ellipse.HalfHeight))
	case OpCurveEquation:
		return setEquation(c, op.Equation)
	case OpCurveEquationParam:
		return c.SetEquationParam(op.Name, *op.Value)
	case OpCurveSVG:
		return c.SetSVG(op.Text)
	case OpCurvePolyline:
		return c.SetPolyline(op.Text)
	case OpCurveText:
		return c.SetText(op.Text, op.Family)
	case OpCurveImage:
		return c.SetImage(op.img, op.Threshold)
	case OpCurveTranslate:
		c.Translate(*op.Delta)
	case OpCurveResize:
		c.Resize(op.Size.Width, op.Size.Height)
	case OpCurveResizeTo:
		c.ResizeTo(op.Size.Width, op.Size.Height)
	case OpCurveResample:
		c.Resample(op.Count, op.Smooth)
	case OpCurveInertia:
		c.SetInertia(*op.Value)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
	return nil
}

func (e *Engine) applyCursorCreate(op Operation) error {
	c := cursor.New(op.Target)
	if op.Position != nil {
		c.SetTarget(*op.Position)
	}
	if op.CurveID != "" {
		crv, ok := e.curves.get(op.CurveID)
		if !ok {
			return fmt.Errorf("curve not found: %s", op.CurveID)
		}
		c.Bind(crv)
	}
	if len(op.Speeds) > 0 {
		c.SetSpeeds(op.Speeds)
	}
	e.cursors.put(op.Target, c)
	return nil
}

func (e *Engine) applyCursorEdit(c *cursor.Cursor, op Operation) error {
	switch op.Type {
	case OpCursorBind:
		if op.CurveID == "" {
			c.Unbind()
			return nil
		}
		crv, ok := e.curves.get(op.CurveID)
		if !ok {
			return fmt.Errorf("curve not found: %s", op.CurveID)
		}
		c.Bind(crv)
	case OpCursorTarget:
		c.SetTarget(*op.Position)
	case OpCursorSpeed:
		if op.Speeds != nil {
			c.SetSpeeds(op.Speeds)
		}
		if op.TimeFactor != nil {
			c.SetTimeFactor(*op.TimeFactor)
		}
	case OpCursorOffsets:
		c.SetOffsets(op.Offsets.Initial, op.Offsets.Start, op.Offsets.End)
	case OpCursorSize:
		c.SetSize(op.Size.Width, op.Size.Height)
	case OpCursorFrames:
		c.SetFrames(op.frames[0], op.frames[1])
	case OpCursorEasing:
		c.SetEasing(op.Easing)
	case OpCursorCollisions:
		c.SetCollisions(*op.Active)
	case OpCursorLockLength:
		c.SetLockPathLength(*op.Active)
	case OpCursorReset:
		c.Reset()
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
	return nil
}

func applyTriggerEdit(t *trigger.Trigger, op Operation) error {
	switch op.Type {
	case OpTriggerPosition:
		t.SetPosition(*op.Position)
	case OpTriggerActive:
		t.SetActive(*op.Active)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
	return nil
}
