package cursor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/message"
	"github.com/inamate/playhead/internal/trigger"
)

func line(t *testing.T, id string, pts ...geom.Vec3) *curve.Curve {
	t.Helper()
	c := curve.New(id)
	for i, p := range pts {
		c.SetControlPoint(i, curve.ControlPoint{Pos: p}, false)
	}
	c.Update()
	require.False(t, c.Dirty())
	return c
}

func step(dt float64) Tick {
	return Tick{Delta: dt, TimeFactor: 1}
}

func TestActivityHysteresis(t *testing.T) {
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))

	c.Advance(step(0))
	assert.True(t, c.Active(), "one still tick keeps the cursor active")
	c.Advance(step(0))
	assert.False(t, c.Active())

	c.Advance(step(0.1))
	assert.True(t, c.Active())
}

func TestAdvanceAlongLine(t *testing.T) {
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(2, 0, 0)))

	c.Advance(step(0.5))
	assert.False(t, c.Reliable(), "binding is a discontinuity")
	assert.Equal(t, c.Position(), c.PrevPosition())
	c.Advance(step(0.5))
	assert.True(t, c.Reliable())
	assert.InDelta(t, 1, c.Position().X, 1e-9)
	assert.InDelta(t, 0.5, c.Param(), 1e-9)
	assert.InDelta(t, 0.5, c.PrevPosition().X, 1e-9)
	assert.InDelta(t, 0, c.Angle().Yaw, 1e-9)
	assert.Equal(t, 0, c.Loop())
}

func TestLoopingIsUnreliable(t *testing.T) {
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))

	c.Advance(step(0.6))
	c.Advance(step(0.6))
	assert.Equal(t, 1, c.Loop())
	assert.False(t, c.Reliable())
	assert.InDelta(t, 0.2, c.Position().X, 1e-9)

	c.Advance(step(0.1))
	assert.True(t, c.Reliable())
}

func TestStopSequenceParksAtEnd(t *testing.T) {
	c := New("cursor_1")
	c.SetSpeeds([]float64{1, 0})
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))

	for i := 0; i < 4; i++ {
		c.Advance(step(0.3))
	}
	assert.Equal(t, 1, c.Loop())
	assert.InDelta(t, 1.2, c.Elapsed(), 1e-9)
	assert.InDelta(t, 1, c.Position().X, 1e-12)

	for i := 0; i < 5; i++ {
		c.Advance(step(0.3))
	}
	assert.Equal(t, 1, c.Loop())
	assert.InDelta(t, 1.2, c.Elapsed(), 1e-9, "a parked cursor stops accumulating")
	assert.InDelta(t, 1, c.Position().X, 1e-12)
	assert.False(t, c.Active())
}

func TestNegativeSpeedReverses(t *testing.T) {
	c := New("cursor_1")
	c.SetSpeeds([]float64{-1})
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))

	c.Advance(step(0.25))
	assert.InDelta(t, 0.75, c.Position().X, 1e-9)
	assert.InDelta(t, -0.25, c.LocalTime(), 1e-12)
	assert.InDelta(t, 0.25, c.Elapsed(), 1e-12)
}

func TestOffsetsAndEasing(t *testing.T) {
	c := New("cursor_1")
	c.SetOffsets(0, 1, 3)
	c.SetEasing(EaseIn)
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(4, 0, 0)))

	c.Advance(step(1))
	// Half of the [1,3] window, eased quadratically.
	assert.InDelta(t, 1.5, c.Position().X, 1e-9)
}

func TestLockPathLength(t *testing.T) {
	crv := line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0))
	c := New("cursor_1")
	c.SetLockPathLength(true)
	c.Bind(crv)
	c.Advance(step(0.5))

	crv.SetControlPoint(1, curve.ControlPoint{Pos: geom.V3(2, 0, 0)}, true)
	crv.Update()
	require.Equal(t, 2.0, crv.PathLength())

	c.Advance(step(0.75))
	assert.Equal(t, 1, c.Loop(), "wraps at the locked length")
	assert.InDelta(t, 0.25, c.Position().X, 1e-9)
	assert.InDelta(t, 0.125, c.Param(), 1e-9)
}

func TestEmptyWindowIsUnreliable(t *testing.T) {
	c := New("cursor_1")
	c.SetOffsets(0, 2, 0)
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))

	c.Advance(step(0.1))
	c.Advance(step(0.1))
	assert.False(t, c.Reliable())
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		rem      float64
		stop     int
		wantLoop int
		wantRem  float64
	}{
		{"inside", 0.4, 0, 0, 0.4},
		{"exact end stays", 1, 0, 0, 1},
		{"one pass", 1.25, 0, 1, 0.25},
		{"multiple of window", 2, 0, 1, 1},
		{"before stop", 1.5, 2, 1, 0.5},
		{"parks at stop", 7.5, 2, 2, 1},
		{"negative", -0.25, 0, 1, 0.75},
		{"far negative", -2.5, 0, 3, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, rem := wrap(tt.rem, 1, tt.stop)
			assert.Equal(t, tt.wantLoop, loop)
			assert.InDelta(t, tt.wantRem, rem, 1e-9)
		})
	}
}

func TestTinyWindowLoopsInClosedForm(t *testing.T) {
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1e-8, 0, 0)))

	for i := 0; i < 3; i++ {
		c.Advance(step(0.25))
	}
	assert.InDelta(t, 75e6, c.Loop(), 2)

	// An hour of playback would be billions of passes.
	c.Advance(step(3600))
	assert.Equal(t, maxLoops, c.Loop())
	assert.InDelta(t, 5e-9, c.Position().X, 6e-9)
}

func TestTriggerHitOnCrossing(t *testing.T) {
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	trig := trigger.New("trigger_1", geom.V3(1, 0, 0))

	for i := 1; i <= 9; i++ {
		c.Advance(Tick{Delta: 0.1, TimeFactor: 1, Timestamp: int64(i * 100)})
		assert.False(t, c.HitTrigger(trig), "tick %d", i)
	}

	c.Advance(Tick{Delta: 0.1, TimeFactor: 1, Timestamp: 1000})
	assert.InDelta(t, 1, c.Elapsed(), 1e-12)
	require.True(t, c.HitTrigger(trig))
	assert.Equal(t, int64(1000), trig.LastHit())
}

func TestTriggerOutsideWidth(t *testing.T) {
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	far := trigger.New("trigger_far", geom.V3(0.5, 2, 0))
	deep := trigger.New("trigger_deep", geom.V3(0.5, 0, 1))

	for i := 0; i < 9; i++ {
		c.Advance(step(0.1))
		assert.False(t, c.HitTrigger(far))
		assert.False(t, c.HitTrigger(deep))
	}

	c.SetSize(1, 0)
	c.Reset()
	hits := 0
	for i := 0; i < 9; i++ {
		c.Advance(step(0.1))
		if c.HitTrigger(deep) {
			hits++
		}
	}
	assert.Equal(t, 1, hits, "zero depth disables the depth check")
}

func TestTriggerSkipsLatchedAndInactive(t *testing.T) {
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))
	trig := trigger.New("trigger_1", geom.V3(0.55, 0, 0))

	trig.Latch()
	for i := 0; i < 9; i++ {
		c.Advance(step(0.1))
		assert.False(t, c.HitTrigger(trig))
	}

	trig.Unlatch()
	trig.SetActive(false)
	c.Reset()
	for i := 0; i < 9; i++ {
		c.Advance(step(0.1))
		assert.False(t, c.HitTrigger(trig))
	}
}

func TestCurveCollision(t *testing.T) {
	bound := line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(2, 0, 0))
	other := line(t, "curve_2", geom.V3(0, 0.3, 0), geom.V3(2, 0.3, 0))

	c := New("cursor_1")
	c.Bind(bound)
	c.Advance(step(0.5))

	_, ok := c.HitCurve(other)
	assert.False(t, ok, "collisions are off by default")

	c.SetCollisions(true)
	col, ok := c.HitCurve(other)
	require.True(t, ok)
	assert.Equal(t, "curve_2", col.CurveID)
	assert.InDelta(t, 0.25, col.Fraction, 0.01)
	assert.InDelta(t, 0.3, col.Point.Y, 1e-9)

	_, ok = c.HitCurve(bound)
	assert.False(t, ok, "a cursor never collides with its own curve")

	other.SetActive(false)
	_, ok = c.HitCurve(other)
	assert.False(t, ok)
}

func TestUnboundFollowsTarget(t *testing.T) {
	c := New("cursor_1")
	c.SetTarget(geom.V3(1, 0, 0))
	c.Advance(step(0.1))

	assert.Equal(t, geom.V3(1, 0, 0), c.Position())
	assert.True(t, c.Reliable())
	assert.InDelta(t, 180, c.Angle().Yaw, 1e-9)
	assert.InDelta(t, 180, c.Angle().Pitch, 1e-9)

	c.Advance(step(0.1))
	assert.InDelta(t, 180, c.Angle().Yaw, 1e-9, "a still target keeps the heading")
}

func TestSphericalAndRelative(t *testing.T) {
	c := New("cursor_1")
	c.SetTarget(geom.V3(0, 5, 0))
	c.Advance(step(0))

	assert.InDelta(t, 5, c.AED().Distance, 1e-12)
	assert.InDelta(t, 0, c.AED().Azimuth, 1e-12)
	assert.Equal(t, geom.V3(0.5, 0.75, 0.5), c.Relative())

	src, _ := c.Frames()
	assert.Equal(t, "-10 10 -10 10 -10 10", src.String())

	src, err := geom.ParseFrame("0 10 0 10 0 10")
	require.NoError(t, err)
	c.SetFrames(src, DefaultTargetFrame)
	c.Advance(step(0))
	assert.Equal(t, geom.V3(0, 0.5, 0), c.Relative())
}

func TestRemovedCurveUnbinds(t *testing.T) {
	crv := line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0))
	c := New("cursor_1")
	c.Bind(crv)
	c.SetTarget(geom.V3(3, 3, 3))
	c.Advance(step(0.1))
	assert.Equal(t, "curve_1", c.CurveID())

	crv.MarkRemoved()
	c.Advance(step(0.1))
	assert.Nil(t, c.Curve())
	assert.Equal(t, geom.V3(3, 3, 3), c.Position())
}

func TestEmitRules(t *testing.T) {
	var rec message.Recorder
	c := New("cursor_1")
	c.Bind(line(t, "curve_1", geom.V3(0, 0, 0), geom.V3(1, 0, 0)))

	c.Advance(step(0.1))
	assert.False(t, c.Emit(&rec, false), "binding is a discontinuity")
	c.Advance(step(0.1))
	assert.True(t, c.Emit(&rec, false))

	c.Advance(step(0))
	c.Advance(step(0))
	assert.False(t, c.Emit(&rec, false), "inactive")
	assert.True(t, c.Emit(&rec, true))

	c.SetOffsets(5, 0, 0)
	c.SetSpeeds([]float64{0})
	c.Advance(step(0.1))
	assert.False(t, c.Emit(&rec, false), "looping is a discontinuity")

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, message.KindCursor, events[0].Kind)
	assert.Equal(t, "curve_1", events[0].CurveID)
	assert.InDelta(t, 0.2, events[0].Position.X, 1e-9)

	c.Unbind()
	c.Advance(step(0))
	assert.True(t, c.Emit(&rec, false), "unbound cursors always emit")
}

func TestEventsCarryHitDetails(t *testing.T) {
	c := New("cursor_1")
	c.SetTarget(geom.V3(1, 2, 3))
	c.Advance(Tick{TimeFactor: 1, Timestamp: 42})

	trig := trigger.New("trigger_1", geom.V3(1, 1, 1))
	e := c.TriggerEvent(trig)
	assert.Equal(t, message.KindTrigger, e.Kind)
	assert.Equal(t, "trigger_1", e.TriggerID)
	assert.Equal(t, geom.V3(1, 1, 1), e.Point)
	assert.Equal(t, int64(42), e.Timestamp)

	e = c.CollisionEvent(Collision{CurveID: "curve_9", Fraction: 0.5, Point: geom.V3(1, 0, 0)})
	assert.Equal(t, message.KindCollision, e.Kind)
	assert.Equal(t, "curve_9", e.OtherCurveID)
	assert.Equal(t, 0.5, e.Fraction)
}

func TestEasingEndpoints(t *testing.T) {
	for _, e := range []Easing{EaseLinear, EaseIn, EaseOut, EaseInOut, EaseCubicIn, EaseCubicOut,
		EaseCubicInOut, EaseBackIn, EaseBackOut, EaseBackInOut, EaseElasticOut, EaseBounceOut} {
		assert.True(t, e.Valid(), e)
		assert.InDelta(t, 0, e.Apply(0), 1e-9, e)
		assert.InDelta(t, 1, e.Apply(1), 1e-9, e)
	}
	assert.False(t, Easing("wobble").Valid())
	assert.Equal(t, 0.25, EaseIn.Apply(0.5))
	assert.False(t, math.IsNaN(EaseElasticOut.Apply(0.3)))
}
