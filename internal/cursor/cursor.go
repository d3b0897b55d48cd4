// Package cursor implements playheads: time-driven points that travel along a
// curve, or follow a free target, and fire triggers they sweep across.
//
// Each tick runs Advance, which moves the playhead and derives position,
// orientation and the sensing quad. Hit tests and Emit then read that state.
package cursor

import (
	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/message"
)

const (
	DefaultWidth = 1.0
	DefaultDepth = 0.5

	// activityEpsilon is the local-time change below which a tick counts as
	// stationary.
	activityEpsilon = 1e-5

	// crossEpsilon is the tolerance on the forward-axis sign change used by
	// trigger hit tests.
	crossEpsilon = 1e-9
)

// Default frames for relative coordinates.
var (
	DefaultSourceFrame = geom.Frame{{From: -10, To: 10}, {From: -10, To: 10}, {From: -10, To: 10}}
	DefaultTargetFrame = geom.Frame{{From: 0, To: 1}, {From: 0, To: 1}, {From: 0, To: 1}}
)

// Tick is the timing information handed to every cursor on one engine step.
type Tick struct {
	// Delta is the wall time elapsed since the previous tick, in seconds.
	Delta float64
	// TimeFactor is the global speed multiplier.
	TimeFactor float64
	// Timestamp is the transport clock in milliseconds.
	Timestamp int64
}

type Cursor struct {
	ID string

	curve  *curve.Curve
	target geom.Vec3

	timeFactor    float64
	speeds        []float64
	initialOffset float64
	startOffset   float64
	endOffset     float64
	easing        Easing
	collisions    bool
	lockLength    bool
	lockedLength  float64
	width, depth  float64
	mapping       geom.Mapping

	elapsed       float64
	localTime     float64
	prevLocalTime float64
	loop          int
	prevLoop      int
	abs, prevAbs  float64
	param         float64

	reliable    bool
	wasReliable bool
	// jumped marks a discontinuity the next tick must not interpolate across.
	jumped      bool
	active      bool
	activityOld bool

	pos, prevPos     geom.Vec3
	angle, prevAngle geom.Angles
	relative         geom.Vec3
	aed, relativeAED geom.AED

	quad, prevQuad [4]geom.Vec3
	bounds         geom.Box3
	// Inverse rotation caches filled by derive and read by hit tests.
	sinYaw, cosYaw     float64
	sinPitch, cosPitch float64

	timestamp int64
	lastSent  message.Event
}

// New creates an unbound cursor sitting at the origin.
func New(id string) *Cursor {
	return &Cursor{
		ID:          id,
		timeFactor:  1,
		speeds:      []float64{1},
		easing:      EaseLinear,
		width:       DefaultWidth,
		depth:       DefaultDepth,
		mapping:     geom.Mapping{Source: DefaultSourceFrame, Target: DefaultTargetFrame},
		active:      true,
		activityOld: true,
		cosYaw:      1,
		cosPitch:    1,
	}
}

// Bind attaches the cursor to c. Passing nil unbinds it. The next tick is
// treated as a discontinuity.
func (c *Cursor) Bind(crv *curve.Curve) {
	c.curve = crv
	c.jumped = true
	c.lockedLength = 0
}

func (c *Cursor) Unbind() { c.Bind(nil) }

// Curve returns the bound curve, or nil.
func (c *Cursor) Curve() *curve.Curve { return c.curve }

func (c *Cursor) CurveID() string {
	if c.curve == nil {
		return ""
	}
	return c.curve.ID
}

// SetTarget sets the point an unbound cursor follows.
func (c *Cursor) SetTarget(p geom.Vec3) { c.target = p }

func (c *Cursor) Target() geom.Vec3 { return c.target }

func (c *Cursor) SetTimeFactor(f float64) { c.timeFactor = f }
func (c *Cursor) TimeFactor() float64     { return c.timeFactor }

// SetSpeeds installs the per-loop speed sequence. A zero entry after the first
// stops the cursor at the end of the preceding loop. An empty sequence means
// a constant speed of 1.
func (c *Cursor) SetSpeeds(seq []float64) {
	if len(seq) == 0 {
		seq = []float64{1}
	}
	c.speeds = append([]float64(nil), seq...)
}

func (c *Cursor) Speeds() []float64 { return append([]float64(nil), c.speeds...) }

// SetOffsets sets the initial playhead offset and the start and end of the
// playing window, all in path units. An end of 0 plays to the end of the path.
func (c *Cursor) SetOffsets(initial, start, end float64) {
	c.initialOffset = initial
	c.startOffset = start
	c.endOffset = end
}

func (c *Cursor) Offsets() (initial, start, end float64) {
	return c.initialOffset, c.startOffset, c.endOffset
}

func (c *Cursor) SetEasing(e Easing) {
	if e == "" {
		e = EaseLinear
	}
	c.easing = e
}

func (c *Cursor) Easing() Easing { return c.easing }

// SetCollisions toggles curve collision testing.
func (c *Cursor) SetCollisions(on bool) { c.collisions = on }
func (c *Cursor) Collisions() bool      { return c.collisions }

// SetLockPathLength freezes the path length used to convert time into
// distance at the value the curve has on the next tick, so editing the curve
// does not change the cursor speed.
func (c *Cursor) SetLockPathLength(on bool) {
	c.lockLength = on
	c.lockedLength = 0
}

func (c *Cursor) LockPathLength() bool { return c.lockLength }

// SetSize sets the sensing quad width and depth. A depth of 0 disables the
// depth check on trigger hits.
func (c *Cursor) SetSize(width, depth float64) {
	c.width = width
	c.depth = depth
}

func (c *Cursor) Size() (width, depth float64) { return c.width, c.depth }

// SetFrames sets the source and target frames of relative coordinates.
func (c *Cursor) SetFrames(source, target geom.Frame) {
	c.mapping = geom.Mapping{Source: source, Target: target}
}

func (c *Cursor) Frames() (source, target geom.Frame) {
	return c.mapping.Source, c.mapping.Target
}

// Reset rewinds the playhead to its initial offset.
func (c *Cursor) Reset() {
	c.elapsed = 0
	c.localTime = 0
	c.prevLocalTime = 0
	c.loop = 0
	c.prevLoop = 0
	c.jumped = true
}

func (c *Cursor) Position() geom.Vec3     { return c.pos }
func (c *Cursor) PrevPosition() geom.Vec3 { return c.prevPos }
func (c *Cursor) Angle() geom.Angles      { return c.angle }
func (c *Cursor) Relative() geom.Vec3     { return c.relative }
func (c *Cursor) AED() geom.AED           { return c.aed }
func (c *Cursor) RelativeAED() geom.AED   { return c.relativeAED }
func (c *Cursor) Elapsed() float64        { return c.elapsed }
func (c *Cursor) LocalTime() float64      { return c.localTime }
func (c *Cursor) Loop() int               { return c.loop }
func (c *Cursor) Reliable() bool          { return c.reliable }
func (c *Cursor) Active() bool            { return c.active }
func (c *Cursor) Quad() [4]geom.Vec3      { return c.quad }
func (c *Cursor) Bounds() geom.Box3       { return c.bounds }
func (c *Cursor) Timestamp() int64        { return c.timestamp }

// LastSent is the last snapshot handed to a sink by Emit.
func (c *Cursor) LastSent() message.Event { return c.lastSent }

// Param is the playhead position as a fraction of the path length.
func (c *Cursor) Param() float64 { return c.param }
