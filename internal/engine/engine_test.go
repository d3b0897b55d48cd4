package engine

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/message"
	"github.com/inamate/playhead/internal/typeid"
)

const frame = 100 * time.Millisecond

func vec(x, y, z float64) *geom.Vec3 {
	v := geom.V3(x, y, z)
	return &v
}

func boolPtr(b bool) *bool { return &b }

func submit(t *testing.T, e *Engine, op Operation) string {
	t.Helper()
	id, err := e.Submit(op)
	require.NoError(t, err, op.Type)
	return id
}

func lineOp(from, to geom.Vec3) Operation {
	return Operation{Type: OpCurveCreate, Points: []curve.ControlPoint{{Pos: from}, {Pos: to}}}
}

func TestSubmitValidation(t *testing.T) {
	e := New()

	_, err := e.Submit(Operation{Type: "scene.explode"})
	assert.ErrorIs(t, err, ErrUnknownOp)

	_, err = e.Submit(Operation{Type: OpCurvePosition, Target: "nope", Position: vec(0, 0, 0)})
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = e.Submit(Operation{Type: OpCurvePosition, Target: typeid.NewCursorID(), Position: vec(0, 0, 0)})
	assert.ErrorIs(t, err, ErrInvalidID, "prefix must match the operation")

	_, err = e.Submit(Operation{Type: OpCurvePosition, Target: typeid.NewCurveID(), Position: vec(0, 0, 0)})
	assert.ErrorIs(t, err, ErrNotFound)

	id := submit(t, e, Operation{Type: OpCurveCreate})
	assert.True(t, strings.HasPrefix(id, "curve_"))
	require.NoError(t, typeid.Validate(id, typeid.PrefixCurve))

	_, err = e.Submit(Operation{Type: OpCurveCreate, Target: id})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = e.Submit(Operation{Type: OpCurvePosition, Target: id})
	assert.ErrorIs(t, err, ErrInvalidOp)

	_, err = e.Submit(Operation{Type: OpCurveSVG, Target: id, Text: "M0 0 L1"})
	assert.ErrorIs(t, err, ErrInvalidOp)

	_, err = e.Submit(Operation{Type: OpCursorCreate, CurveID: typeid.NewCurveID()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.Submit(Operation{Type: OpCursorEasing, Target: submit(t, e, Operation{Type: OpCursorCreate}), Easing: "wobble"})
	assert.ErrorIs(t, err, ErrInvalidOp)
}

func TestSubmitSeesQueuedEdits(t *testing.T) {
	e := New()
	id := submit(t, e, Operation{Type: OpCurveCreate})
	submit(t, e, Operation{Type: OpCurvePosition, Target: id, Position: vec(1, 2, 3)})
	submit(t, e, Operation{Type: OpCursorCreate, CurveID: id})

	submit(t, e, Operation{Type: OpCurveDelete, Target: id})
	_, err := e.Submit(Operation{Type: OpCurvePosition, Target: id, Position: vec(0, 0, 0)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOperationsApplyOnTick(t *testing.T) {
	e := New()
	id := submit(t, e, lineOp(geom.V3(0, 0, 0), geom.V3(3, 4, 0)))
	submit(t, e, Operation{Type: OpCurvePosition, Target: id, Position: vec(1, 0, 0)})

	assert.Empty(t, e.Curves())
	assert.Equal(t, 2, e.Playback().Queued)

	e.Tick(0)
	v, err := e.Curve(id)
	require.NoError(t, err)
	assert.Equal(t, curve.KindPoints, v.Kind)
	assert.Equal(t, 5.0, v.PathLength)
	assert.Equal(t, geom.V3(1, 0, 0), v.Position)
	assert.NotEmpty(t, v.Outline)
	assert.Equal(t, int64(2), e.Playback().Applied)

	_, err = e.Curve(typeid.NewCurveID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTriggerFiresDuringPlayback(t *testing.T) {
	var rec message.Recorder
	e := New(WithSink(&rec))
	line := submit(t, e, lineOp(geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	cur := submit(t, e, Operation{Type: OpCursorCreate, CurveID: line})
	trig := submit(t, e, Operation{Type: OpTriggerCreate, Position: vec(0.55, 0, 0)})
	e.Play()

	for i := 0; i < 9; i++ {
		e.Tick(frame)
	}

	hits := rec.OfKind(message.KindTrigger)
	require.Len(t, hits, 1)
	assert.Equal(t, trig, hits[0].TriggerID)
	assert.Equal(t, cur, hits[0].CursorID)
	assert.Equal(t, int64(600), hits[0].Timestamp)

	tv, err := e.Trigger(trig)
	require.NoError(t, err)
	assert.Equal(t, int64(600), tv.LastHit)

	assert.NotEmpty(t, rec.OfKind(message.KindCursor))
}

func TestHitsFollowSnapshots(t *testing.T) {
	e := New()
	line := submit(t, e, lineOp(geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	submit(t, e, Operation{Type: OpCursorCreate, CurveID: line})
	submit(t, e, Operation{Type: OpTriggerCreate, Position: vec(0.55, 0, 0)})
	e.Play()

	for i := 0; i < 5; i++ {
		e.Tick(frame)
	}
	events := e.Tick(frame)
	require.Len(t, events, 2)
	assert.Equal(t, message.KindCursor, events[0].Kind)
	assert.Equal(t, message.KindTrigger, events[1].Kind)
}

func TestLatchAllowsOneHitPerTick(t *testing.T) {
	var rec message.Recorder
	e := New(WithSink(&rec))
	line := submit(t, e, lineOp(geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	submit(t, e, Operation{Type: OpCursorCreate, CurveID: line})
	submit(t, e, Operation{Type: OpCursorCreate, CurveID: line})
	submit(t, e, Operation{Type: OpTriggerCreate, Position: vec(0.55, 0, 0)})
	e.Play()

	for i := 0; i < 9; i++ {
		e.Tick(frame)
	}
	assert.Len(t, rec.OfKind(message.KindTrigger), 1)
}

func TestPausedEngineStillApplies(t *testing.T) {
	e := New()
	line := submit(t, e, lineOp(geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	cur := submit(t, e, Operation{Type: OpCursorCreate, CurveID: line})

	e.Tick(frame)
	e.Tick(frame)
	v, err := e.Cursor(cur)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Elapsed)
	assert.Equal(t, int64(0), e.Playback().ClockMS)

	assert.True(t, e.TogglePlay())
	e.SetTimeFactor(2)
	e.Tick(frame)
	v, _ = e.Cursor(cur)
	assert.InDelta(t, 0.2, v.Elapsed, 1e-12)
	assert.Equal(t, 2.0, e.Playback().TimeFactor)

	e.Rewind()
	v, _ = e.Cursor(cur)
	assert.Equal(t, 0.0, v.Elapsed)
	assert.Equal(t, int64(0), e.Playback().ClockMS)
}

func TestCollisionEvents(t *testing.T) {
	var rec message.Recorder
	e := New(WithSink(&rec))
	line := submit(t, e, lineOp(geom.V3(0, 0, 0), geom.V3(2, 0, 0)))
	other := submit(t, e, lineOp(geom.V3(0, 0.3, 0), geom.V3(2, 0.3, 0)))
	cur := submit(t, e, Operation{Type: OpCursorCreate, CurveID: line})
	e.Play()
	e.Tick(frame)
	assert.Empty(t, rec.OfKind(message.KindCollision))

	submit(t, e, Operation{Type: OpCursorCollisions, Target: cur, Active: boolPtr(true)})
	e.Tick(frame)
	cols := rec.OfKind(message.KindCollision)
	require.Len(t, cols, 1)
	assert.Equal(t, other, cols[0].OtherCurveID)
	assert.InDelta(t, 0.3, cols[0].Point.Y, 1e-9)
}

func TestDeletedCurveReleasesCursor(t *testing.T) {
	e := New()
	line := submit(t, e, lineOp(geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	cur := submit(t, e, Operation{Type: OpCursorCreate, CurveID: line, Position: vec(5, 5, 0)})
	e.Tick(0)
	v, _ := e.Cursor(cur)
	assert.Equal(t, line, v.CurveID)

	submit(t, e, Operation{Type: OpCurveDelete, Target: line})
	e.Tick(0)
	v, _ = e.Cursor(cur)
	assert.Empty(t, v.CurveID)
	assert.Equal(t, geom.V3(5, 5, 0), v.Position)
	assert.Empty(t, e.Curves())
}

func TestPointShiftDefaultsForward(t *testing.T) {
	e := New()
	id := submit(t, e, Operation{Type: OpCurveCreate, Points: []curve.ControlPoint{
		{Pos: geom.V3(0, 0, 0)}, {Pos: geom.V3(1, 0, 0)}, {Pos: geom.V3(3, 0, 0)},
	}})
	// No direction in the payload: the chain after the point slides back.
	submit(t, e, Operation{Type: OpCurvePointShift, Target: id, Index: 1})
	e.Tick(0)

	v, err := e.Curve(id)
	require.NoError(t, err)
	require.Len(t, v.Points, 2)
	assert.Equal(t, geom.V3(1, 0, 0), v.Points[1].Pos)
}

type forgetSink struct {
	message.Recorder
	forgotten []string
}

func (f *forgetSink) Forget(id string) { f.forgotten = append(f.forgotten, id) }

func TestDeletedCursorsAreForgotten(t *testing.T) {
	var sink forgetSink
	e := New(WithSink(&sink))
	first := submit(t, e, Operation{Type: OpCursorCreate})
	second := submit(t, e, Operation{Type: OpCursorCreate})
	e.Tick(frame)
	assert.Empty(t, sink.forgotten)

	submit(t, e, Operation{Type: OpCursorDelete, Target: first})
	e.Tick(frame)
	assert.Equal(t, []string{first}, sink.forgotten)
	e.Tick(frame)
	assert.Len(t, sink.forgotten, 1, "forgotten once")

	e.Clear()
	e.Tick(frame)
	assert.Equal(t, []string{first, second}, sink.forgotten)
}

func TestCursorEdits(t *testing.T) {
	e := New()
	cur := submit(t, e, Operation{Type: OpCursorCreate})
	submit(t, e, Operation{Type: OpCursorSpeed, Target: cur, Speeds: []float64{1, -1}, TimeFactor: new(float64)})
	submit(t, e, Operation{Type: OpCursorOffsets, Target: cur, Offsets: &Offsets{Initial: 0.5, Start: 0, End: 2}})
	submit(t, e, Operation{Type: OpCursorSize, Target: cur, Size: &Size{Width: 2, Height: 0}})
	submit(t, e, Operation{Type: OpCursorFrames, Target: cur, Source: "0 1 0 1"})
	submit(t, e, Operation{Type: OpCursorEasing, Target: cur, Easing: "easeOut"})
	submit(t, e, Operation{Type: OpCursorLockLength, Target: cur, Active: boolPtr(true)})
	e.Tick(0)

	v, err := e.Cursor(cur)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1}, v.Speeds)
	assert.Equal(t, 0.0, v.TimeFactor)
	assert.Equal(t, Offsets{Initial: 0.5, End: 2}, v.Offsets)
	assert.Equal(t, Size{Width: 2}, v.Size)
	assert.Equal(t, "0 1 0 1 0 1", v.Source)
	assert.Equal(t, "0 1 0 1 0 1", v.Dest)
	assert.Equal(t, "easeOut", string(v.Easing))
	assert.True(t, v.LockLength)
}

func TestEquationCurveWithParams(t *testing.T) {
	e := New()
	id := submit(t, e, Operation{
		Type: OpCurveCreate,
		Equation: &EquationSpec{
			Kind:   curve.KindEquationPolar,
			Text:   "radius, HALF_PI, TWO_PI*t",
			Params: map[string]float64{"radius": 2},
		},
	})
	e.Tick(0)

	v, err := e.Curve(id)
	require.NoError(t, err)
	require.NotNil(t, v.Equation)
	assert.True(t, v.Equation.Valid)
	assert.InDelta(t, 4*3.14159, v.PathLength, 0.01)

	submit(t, e, Operation{Type: OpCurveEquation, Target: id, Equation: &EquationSpec{Kind: curve.KindEquationCartesian, Text: "t"}})
	e.Tick(0)
	v, _ = e.Curve(id)
	assert.False(t, v.Equation.Valid, "a bad expression keeps the curve but marks it invalid")
}

type fakeAssets map[string]image.Image

func (f fakeAssets) Open(id string) (image.Image, error) {
	img, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", id, fs.ErrNotExist)
	}
	return img, nil
}

func TestImageCurve(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			img.SetGray(x, y, color.Gray{})
		}
	}
	assetID := typeid.NewAssetID()
	e := New(WithAssets(fakeAssets{assetID: img}))

	id := submit(t, e, Operation{Type: OpCurveCreate})
	submit(t, e, Operation{Type: OpCurveImage, Target: id, AssetID: assetID, Threshold: 0.5})
	e.Tick(0)
	v, _ := e.Curve(id)
	assert.Greater(t, len(v.Points), 4)

	_, err := e.Submit(Operation{Type: OpCurveImage, Target: id, AssetID: typeid.NewAssetID()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = New().Submit(Operation{Type: OpCurveImage, Target: id, AssetID: assetID})
	assert.ErrorIs(t, err, ErrInvalidOp)
}

func TestLoadSampleScene(t *testing.T) {
	var rec message.Recorder
	e := New(WithSink(&rec))
	require.NoError(t, e.LoadSampleScene())
	e.Play()
	for i := 0; i < 5; i++ {
		e.Tick(frame)
	}

	pb := e.Playback()
	assert.Equal(t, 3, pb.Curves)
	assert.Equal(t, 4, pb.Cursors)
	assert.Equal(t, 4, pb.Triggers)

	for _, c := range e.Curves() {
		if c.Equation != nil {
			assert.True(t, c.Equation.Valid, c.Equation.Text)
		}
	}
	assert.NotEmpty(t, rec.OfKind(message.KindCursor))

	require.NoError(t, e.LoadSampleScene())
	e.Tick(0)
	assert.Equal(t, 3, e.Playback().Curves, "reloading replaces the scene")
}
