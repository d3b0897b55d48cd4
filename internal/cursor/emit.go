package cursor

import (
	"github.com/inamate/playhead/internal/message"
	"github.com/inamate/playhead/internal/trigger"
)

// Snapshot captures the cursor state as a cursor event.
func (c *Cursor) Snapshot() message.Event {
	return message.Event{
		Kind:        message.KindCursor,
		CursorID:    c.ID,
		CurveID:     c.CurveID(),
		Timestamp:   c.timestamp,
		Position:    c.pos,
		Relative:    c.relative,
		Angle:       c.angle,
		AED:         c.aed,
		RelativeAED: c.relativeAED,
		Param:       c.param,
		LocalTime:   c.localTime,
		Elapsed:     c.elapsed,
		Loop:        c.loop,
	}
}

// TriggerEvent describes a hit on t.
func (c *Cursor) TriggerEvent(t *trigger.Trigger) message.Event {
	e := c.Snapshot()
	e.Kind = message.KindTrigger
	e.TriggerID = t.ID
	e.Point = t.Position()
	return e
}

// CollisionEvent describes col as seen from this cursor.
func (c *Cursor) CollisionEvent(col Collision) message.Event {
	e := c.Snapshot()
	e.Kind = message.KindCollision
	e.OtherCurveID = col.CurveID
	e.Point = col.Point
	e.Fraction = col.Fraction
	return e
}

// Emit sends a snapshot to sink when forced, when the cursor is moving along
// a reliable path, or when it is unbound. It reports whether it sent.
func (c *Cursor) Emit(sink message.Sink, force bool) bool {
	if !force && !(c.reliable && c.active) && c.curve != nil {
		return false
	}
	c.lastSent = c.Snapshot()
	sink.Emit(c.lastSent)
	return true
}
