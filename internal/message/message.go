// Package message defines the records the engine hands to outbound transports.
package message

import (
	"sync"

	"github.com/inamate/playhead/internal/geom"
)

type Kind string

const (
	KindCursor    Kind = "cursor"
	KindTrigger   Kind = "trigger"
	KindCollision Kind = "collision"
)

// Event is a snapshot of a cursor, optionally annotated with the trigger it
// fired or the curve it collided with.
type Event struct {
	Kind      Kind   `json:"kind"`
	CursorID  string `json:"cursorId"`
	CurveID   string `json:"curveId,omitempty"`
	TriggerID string `json:"triggerId,omitempty"`
	// OtherCurveID is the curve hit by a collision.
	OtherCurveID string `json:"otherCurveId,omitempty"`
	Timestamp    int64  `json:"timestamp"`

	Position    geom.Vec3   `json:"position"`
	Relative    geom.Vec3   `json:"relative"`
	Angle       geom.Angles `json:"angle"`
	AED         geom.AED    `json:"aed"`
	RelativeAED geom.AED    `json:"relativeAed"`

	Param     float64 `json:"param"`
	LocalTime float64 `json:"localTime"`
	Elapsed   float64 `json:"elapsed"`
	Loop      int     `json:"loop"`

	// Point is the trigger position or the collision point.
	Point    geom.Vec3 `json:"point"`
	Fraction float64   `json:"fraction,omitempty"`
}

type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Forgetter is implemented by sinks that keep per-cursor state.
type Forgetter interface {
	Forget(cursorID string)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Fanout forwards each event to every sink in order.
type Fanout []Sink

func (f Fanout) Emit(e Event) {
	for _, s := range f {
		s.Emit(e)
	}
}

// Forget passes cursorID on to every member that keeps cursor state.
func (f Fanout) Forget(cursorID string) {
	for _, s := range f {
		if fg, ok := s.(Forgetter); ok {
			fg.Forget(cursorID)
		}
	}
}

// Dedup drops cursor events identical to the last one forwarded for the same
// cursor, ignoring the timestamp. Trigger and collision events always pass.
type Dedup struct {
	next Sink
	mu   sync.Mutex
	last map[string]Event
}

func NewDedup(next Sink) *Dedup {
	return &Dedup{next: next, last: make(map[string]Event)}
}

func (d *Dedup) Emit(e Event) {
	if e.Kind == KindCursor {
		key := e
		key.Timestamp = 0

		d.mu.Lock()
		prev, ok := d.last[e.CursorID]
		if ok && prev == key {
			d.mu.Unlock()
			return
		}
		d.last[e.CursorID] = key
		d.mu.Unlock()
	}
	d.next.Emit(e)
}

// Forget clears the remembered state of a cursor and of anything downstream.
func (d *Dedup) Forget(cursorID string) {
	d.mu.Lock()
	delete(d.last, cursorID)
	d.mu.Unlock()
	if fg, ok := d.next.(Forgetter); ok {
		fg.Forget(cursorID)
	}
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events of one kind.
func (r *Recorder) OfKind(k Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
