package engine

import (
	"fmt"

	"github.com/inamate/playhead/internal/cursor"
	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/trigger"
)

// --- Queries ---

type CurveView struct {
	ID         string               `json:"id"`
	Kind       curve.Kind           `json:"kind"`
	Position   geom.Vec3            `json:"position"`
	Active     bool                 `json:"active"`
	PathLength float64              `json:"pathLength"`
	Bounds     geom.Box3            `json:"bounds"`
	Inertia    float64              `json:"inertia"`
	Points     []curve.ControlPoint `json:"points,omitempty"`
	Ellipse    *curve.Ellipse       `json:"ellipse,omitempty"`
	Equation   *curve.EquationInfo  `json:"equation,omitempty"`
	Outline    []geom.Vec3          `json:"outline,omitempty"`
}

type CursorView struct {
	ID          string        `json:"id"`
	CurveID     string        `json:"curveId,omitempty"`
	Position    geom.Vec3     `json:"position"`
	Target      geom.Vec3     `json:"target"`
	Angle       geom.Angles   `json:"angle"`
	Relative    geom.Vec3     `json:"relative"`
	AED         geom.AED      `json:"aed"`
	RelativeAED geom.AED      `json:"relativeAed"`
	Param       float64       `json:"param"`
	Loop        int           `json:"loop"`
	Elapsed     float64       `json:"elapsed"`
	LocalTime   float64       `json:"localTime"`
	Active      bool          `json:"active"`
	Reliable    bool          `json:"reliable"`
	Speeds      []float64     `json:"speeds"`
	TimeFactor  float64       `json:"timeFactor"`
	Offsets     Offsets       `json:"offsets"`
	Easing      cursor.Easing `json:"easing"`
	Size        Size          `json:"size"`
	Collisions  bool          `json:"collisions"`
	LockLength  bool          `json:"lockLength"`
	Source      string        `json:"source"`
	Dest        string        `json:"dest"`
	Quad        [4]geom.Vec3  `json:"quad"`
}

type TriggerView struct {
	ID       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
	Active   bool      `json:"active"`
	LastHit  int64     `json:"lastHit"`
}

type PlaybackView struct {
	Playing    bool    `json:"playing"`
	TimeFactor float64 `json:"timeFactor"`
	ClockMS    int64   `json:"clockMs"`
	Ticks      int64   `json:"ticks"`
	Applied    int64   `json:"applied"`
	Queued     int     `json:"queued"`
	Curves     int     `json:"curves"`
	Cursors    int     `json:"cursors"`
	Triggers   int     `json:"triggers"`
}

func curveView(c *curve.Curve, outline bool) CurveView {
	v := CurveView{
		ID:         c.ID,
		Kind:       c.Kind(),
		Position:   c.Position(),
		Active:     c.Active(),
		PathLength: c.PathLength(),
		Bounds:     c.Bounds(),
		Inertia:    c.Inertia(),
		Points:     c.Points(),
		Equation:   c.EquationInfo(),
	}
	if e, ok := c.Shape().(*curve.Ellipse); ok {
		cp := *e
		v.Ellipse = &cp
	}
	if outline {
		v.Outline = c.Outline()
	}
	return v
}

func cursorView(c *cursor.Cursor) CursorView {
	initial, start, end := c.Offsets()
	w, d := c.Size()
	src, dst := c.Frames()
	return CursorView{
		ID:          c.ID,
		CurveID:     c.CurveID(),
		Position:    c.Position(),
		Target:      c.Target(),
		Angle:       c.Angle(),
		Relative:    c.Relative(),
		AED:         c.AED(),
		RelativeAED: c.RelativeAED(),
		Param:       c.Param(),
		Loop:        c.Loop(),
		Elapsed:     c.Elapsed(),
		LocalTime:   c.LocalTime(),
		Active:      c.Active(),
		Reliable:    c.Reliable(),
		Speeds:      c.Speeds(),
		TimeFactor:  c.TimeFactor(),
		Offsets:     Offsets{Initial: initial, Start: start, End: end},
		Easing:      c.Easing(),
		Size:        Size{Width: w, Height: d},
		Collisions:  c.Collisions(),
		LockLength:  c.LockPathLength(),
		Source:      src.String(),
		Dest:        dst.String(),
		Quad:        c.Quad(),
	}
}

func triggerView(t *trigger.Trigger) TriggerView {
	return TriggerView{ID: t.ID, Position: t.Position(), Active: t.Active(), LastHit: t.LastHit()}
}

// Curves lists every curve without outlines.
func (e *Engine) Curves() []CurveView {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]CurveView, 0, e.curves.len())
	e.curves.each(func(_ string, c *curve.Curve) { out = append(out, curveView(c, false)) })
	return out
}

// Curve returns one curve with its outline.
func (e *Engine) Curve(id string) (CurveView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.curves.get(id)
	if !ok {
		return CurveView{}, fmt.Errorf("curve %s: %w", id, ErrNotFound)
	}
	return curveView(c, true), nil
}

func (e *Engine) Cursors() []CursorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]CursorView, 0, e.cursors.len())
	e.cursors.each(func(_ string, c *cursor.Cursor) { out = append(out, cursorView(c)) })
	return out
}

func (e *Engine) Cursor(id string) (CursorView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.cursors.get(id)
	if !ok {
		return CursorView{}, fmt.Errorf("cursor %s: %w", id, ErrNotFound)
	}
	return cursorView(c), nil
}

func (e *Engine) Triggers() []TriggerView {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]TriggerView, 0, e.triggers.len())
	e.triggers.each(func(_ string, t *trigger.Trigger) { out = append(out, triggerView(t)) })
	return out
}

func (e *Engine) Trigger(id string) (TriggerView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.triggers.get(id)
	if !ok {
		return TriggerView{}, fmt.Errorf("trigger %s: %w", id, ErrNotFound)
	}
	return triggerView(t), nil
}

func (e *Engine) Playback() PlaybackView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PlaybackView{
		Playing:    e.playing,
		TimeFactor: e.timeFactor,
		ClockMS:    e.clock.Milliseconds(),
		Ticks:      e.ticks,
		Applied:    e.applied,
		Queued:     len(e.queue),
		Curves:     e.curves.len(),
		Cursors:    e.cursors.len(),
		Triggers:   e.triggers.len(),
	}
}
