package cursor

import (
	"math"

	"github.com/inamate/playhead/internal/geom"
)

// stopIndex returns the index of the first zero in the speed sequence after
// the first entry, or 0 when the sequence never stops.
func (c *Cursor) stopIndex() int {
	for i := 1; i < len(c.speeds); i++ {
		if c.speeds[i] == 0 {
			return i
		}
	}
	return 0
}

// speedAt returns the loop speed factor for loop, 0 once a stop is reached.
func (c *Cursor) speedAt(loop int) float64 {
	if k := c.stopIndex(); k > 0 && loop >= k {
		return 0
	}
	return c.speeds[loop%len(c.speeds)]
}

// direction returns the sign of travel for loop. A parked cursor keeps the
// direction of the loop that brought it there.
func (c *Cursor) direction(loop int) float64 {
	if k := c.stopIndex(); k > 0 && loop >= k {
		loop = k - 1
	}
	if c.speeds[loop%len(c.speeds)] < 0 {
		return -1
	}
	return 1
}

// Advance moves the cursor by one tick and rederives its geometry.
func (c *Cursor) Advance(tick Tick) {
	c.timestamp = tick.Timestamp
	if c.curve != nil && c.curve.Removed() {
		c.curve = nil
	}

	c.wasReliable = c.reliable
	oldQuad := c.quad

	if c.curve == nil {
		c.follow()
	} else {
		c.play(tick)
	}

	c.derive(oldQuad)
}

// play advances the playhead along the bound curve.
func (c *Cursor) play(tick Tick) {
	c.prevLocalTime = c.localTime
	c.prevLoop = c.loop
	c.prevAbs = c.abs

	lf := c.speedAt(c.loop)
	scale := tick.Delta * tick.TimeFactor * c.timeFactor
	c.elapsed += scale * math.Abs(lf)
	c.localTime += scale * lf

	length := c.curve.PathLength()
	if c.lockLength {
		if c.lockedLength <= 0 {
			c.lockedLength = length
		}
		length = c.lockedLength
	}
	window := length - c.startOffset
	if c.endOffset > 0 {
		window = c.endOffset - c.startOffset
	}

	reliable := true
	frac := 0.0
	loop := 0
	if window <= 0 {
		reliable = false
	} else {
		var rem float64
		loop, rem = wrap(c.elapsed+c.initialOffset, window, c.stopIndex())

		if c.direction(loop) < 0 {
			frac = (window - rem) / window
		} else {
			frac = rem / window
		}
		if frac < 0 || frac > 1 {
			reliable = false
		}
	}

	c.loop = loop
	if c.loop != c.prevLoop || c.jumped {
		reliable = false
	}
	c.jumped = false
	c.reliable = reliable

	c.abs = c.startOffset + c.easing.Apply(frac)*math.Max(window, 0)
	c.param = c.abs / c.curve.PathLength()
	c.updateActivity()

	off := c.curve.Position()
	c.pos = c.curve.QueryPointAt(c.abs, true).Add(off)
	c.prevPos = c.curve.QueryPointAt(c.prevAbs, true).Add(off)
	c.angle = c.curveAngle(c.abs)
	c.prevAngle = c.curveAngle(c.prevAbs)
	if !c.reliable {
		c.prevPos = c.pos
		c.prevAngle = c.angle
	}
}

// maxLoops caps the loop counter so huge elapsed times over tiny windows
// cannot overflow it.
const maxLoops = math.MaxInt32

// wrap folds rem into the window and counts the passes it took. A rem that
// lands exactly on the window end stays on the current loop. With a stop
// index k, the count never passes k and the playhead parks at the end.
func wrap(rem, window float64, k int) (int, float64) {
	switch {
	case rem > window:
		n := math.Ceil(rem/window) - 1
		if k > 0 && n >= float64(k) {
			return k, window
		}
		rem -= n * window
		return loopCount(n), math.Min(math.Max(rem, 0), window)
	case rem < 0:
		n := math.Ceil(-rem / window)
		rem += n * window
		return loopCount(n), math.Min(math.Max(rem, 0), window)
	}
	return 0, rem
}

func loopCount(n float64) int {
	if n > maxLoops {
		return maxLoops
	}
	return int(n)
}

func (c *Cursor) curveAngle(abs float64) geom.Angles {
	a := c.curve.QueryAngleAt(abs, true).Neg()
	if math.IsNaN(a.Yaw) {
		a.Yaw = 0
	}
	if math.IsNaN(a.Pitch) {
		a.Pitch = 0
	}
	return a
}

// follow moves an unbound cursor onto its target, facing along the motion.
func (c *Cursor) follow() {
	c.prevPos = c.pos
	c.prevAngle = c.angle
	c.pos = c.target
	c.reliable = true

	d := c.prevPos.Sub(c.pos)
	if d.IsZero() {
		return
	}
	c.angle = geom.Angles{
		Yaw:   -math.Atan2(d.X, d.Y)*180/math.Pi + 90,
		Pitch: math.Atan2(math.Hypot(d.X, d.Y), d.Z)*180/math.Pi + 90,
	}
}

func (c *Cursor) updateActivity() {
	if math.Abs(c.localTime-c.prevLocalTime) < activityEpsilon {
		if !c.activityOld {
			c.active = false
		}
		c.activityOld = false
		return
	}
	c.active = true
	c.activityOld = true
}
