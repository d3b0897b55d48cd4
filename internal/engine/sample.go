package engine

import (
	"fmt"

	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/typeid"
)

// SampleOperations returns the edits that build the demo scene: an ellipse
// with four triggers, a Lissajous figure played back and forth, a straight
// lane whose cursor collides with the ellipse, and a free cursor.
func SampleOperations() []Operation {
	ellipseID := typeid.NewCurveID()
	lissajousID := typeid.NewCurveID()
	laneID := typeid.NewCurveID()

	vec := func(x, y, z float64) *geom.Vec3 { v := geom.V3(x, y, z); return &v }
	on := true

	ops := []Operation{
		{Type: OpCurveCreate, Target: ellipseID, Ellipse: curve.NewEllipse(4, 3)},
		{
			Type:   OpCurveCreate,
			Target: lissajousID,
			Equation: &EquationSpec{
				Kind: curve.KindEquationCartesian,
				Text: "amp*sin(3*TWO_PI*t), amp*sin(2*TWO_PI*t), 0",
				Params: map[string]float64{
					"amp": 2,
				},
				Samples: 200,
			},
		},
		{
			Type:   OpCurveCreate,
			Target: laneID,
			Points: []curve.ControlPoint{
				{Pos: geom.V3(-6, -5, 0)},
				{Pos: geom.V3(0, -2, 0), Smooth: true},
				{Pos: geom.V3(6, -5, 0)},
			},
		},
		{Type: OpCursorCreate, CurveID: ellipseID, Speeds: []float64{0.2}},
		{Type: OpCursorCreate, CurveID: lissajousID, Speeds: []float64{0.1, -0.1}},
	}

	laneCursor := typeid.NewCursorID()
	ops = append(ops,
		Operation{Type: OpCursorCreate, Target: laneCursor, CurveID: laneID, Speeds: []float64{0.15}},
		Operation{Type: OpCursorCollisions, Target: laneCursor, Active: &on},
		Operation{Type: OpCursorCreate, Position: vec(0, 0, 0)},
	)

	for _, p := range []geom.Vec3{{X: 4}, {Y: 3}, {X: -4}, {Y: -3}} {
		ops = append(ops, Operation{Type: OpTriggerCreate, Position: vec(p.X, p.Y, p.Z)})
	}
	return ops
}

// LoadSampleScene replaces the scene with the demo scene. The edits are
// applied on the next tick.
func (e *Engine) LoadSampleScene() error {
	e.Clear()
	for _, op := range SampleOperations() {
		if _, err := e.Submit(op); err != nil {
			return fmt.Errorf("load sample scene: %w", err)
		}
	}
	return nil
}
