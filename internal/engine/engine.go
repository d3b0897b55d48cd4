// Package engine owns the scene (curves, cursors, triggers) and steps it in a
// fixed order once per tick.
//
// Edits arrive as Operations through Submit, which validates ids right away
// and queues the edit. The queue is applied at the start of the next Tick, so
// every tick sees a consistent scene.
package engine

import (
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/playhead/internal/cursor"
	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/message"
	"github.com/inamate/playhead/internal/trigger"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidID   = errors.New("invalid id")
	ErrDuplicateID = errors.New("duplicate id")
	ErrInvalidOp   = errors.New("invalid operation")
	ErrUnknownOp   = errors.New("unknown operation type")
)

// AssetLoader resolves uploaded images for curve.image operations.
type AssetLoader interface {
	Open(id string) (image.Image, error)
}

type Option func(*Engine)

// WithSink sets where tick events go. The default discards them.
func WithSink(s message.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

func WithAssets(l AssetLoader) Option {
	return func(e *Engine) { e.assets = l }
}

// WithTimeFactor sets the initial global speed multiplier.
func WithTimeFactor(f float64) Option {
	return func(e *Engine) { e.timeFactor = f }
}

// WithCurveOptions passes options to every curve the engine creates.
func WithCurveOptions(opts ...curve.Option) Option {
	return func(e *Engine) { e.curveOpts = append(e.curveOpts, opts...) }
}

type Engine struct {
	mu sync.Mutex

	curves   *arena[*curve.Curve]
	cursors  *arena[*cursor.Cursor]
	triggers *arena[*trigger.Trigger]

	queue []Operation
	// Ids created or deleted by queued operations, so Submit can validate
	// against the scene as it will be once the queue is applied.
	pendingCreate map[string]struct{}
	pendingDelete map[string]struct{}
	// Cursors dropped since the last tick, for sinks that track them.
	removed []string

	playing    bool
	timeFactor float64
	clock      time.Duration
	ticks      int64
	applied    int64

	sink      message.Sink
	assets    AssetLoader
	curveOpts []curve.Option
}

// New creates an empty, paused engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		curves:        newArena[*curve.Curve](),
		cursors:       newArena[*cursor.Cursor](),
		triggers:      newArena[*trigger.Trigger](),
		pendingCreate: make(map[string]struct{}),
		pendingDelete: make(map[string]struct{}),
		timeFactor:    1,
		sink:          message.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands ---

// Submit validates op and queues it for the next tick. It returns the id of
// the object the operation targets, which for create operations may have just
// been assigned.
func (e *Engine) Submit(op Operation) (string, error) {
	// Asset decoding happens outside the lock.
	if op.Type == OpCurveImage {
		if err := e.loadImage(&op); err != nil {
			return "", err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validateLocked(&op); err != nil {
		return "", err
	}

	switch op.Type {
	case OpCurveCreate, OpCursorCreate, OpTriggerCreate:
		e.pendingCreate[op.Target] = struct{}{}
	case OpCurveDelete, OpCursorDelete, OpTriggerDelete:
		e.pendingDelete[op.Target] = struct{}{}
	}
	e.queue = append(e.queue, op)
	return op.Target, nil
}

func (e *Engine) Play() {
	e.mu.Lock()
	e.playing = true
	e.mu.Unlock()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	e.playing = false
	e.mu.Unlock()
}

// TogglePlay flips the play state and returns the new one.
func (e *Engine) TogglePlay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = !e.playing
	return e.playing
}

func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// SetTimeFactor sets the global speed multiplier applied to every cursor.
func (e *Engine) SetTimeFactor(f float64) {
	e.mu.Lock()
	e.timeFactor = f
	e.mu.Unlock()
}

// Rewind resets the transport clock and every cursor.
func (e *Engine) Rewind() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = 0
	e.cursors.each(func(_ string, c *cursor.Cursor) { c.Reset() })
}

// Clear drops the whole scene, including queued edits.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.curves.each(func(_ string, c *curve.Curve) { c.MarkRemoved() })
	e.cursors.each(func(id string, _ *cursor.Cursor) { e.removed = append(e.removed, id) })
	e.curves.clear()
	e.cursors.clear()
	e.triggers.clear()
	e.queue = nil
	clear(e.pendingCreate)
	clear(e.pendingDelete)
}

// --- Tick ---

// Tick applies queued edits and steps the scene by dt. While paused the scene
// still updates but cursors advance by zero. The events produced are sent to
// the sink after the lock is released and also returned.
func (e *Engine) Tick(dt time.Duration) []message.Event {
	events, removed := e.step(dt)
	for _, ev := range events {
		e.sink.Emit(ev)
	}
	if f, ok := e.sink.(message.Forgetter); ok {
		for _, id := range removed {
			f.Forget(id)
		}
	}
	return events
}

func (e *Engine) step(dt time.Duration) ([]message.Event, []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. queued edits
	queue := e.queue
	e.queue = nil
	clear(e.pendingCreate)
	clear(e.pendingDelete)
	for _, op := range queue {
		if err := e.applyOperationLocked(op); err != nil {
			slog.Error("apply operation", "type", op.Type, "target", op.Target, "error", err)
			continue
		}
		e.applied++
	}

	// 2. latches
	e.triggers.each(func(_ string, t *trigger.Trigger) { t.Unlatch() })

	// 3-4. inertia, then recompute what changed
	e.curves.each(func(_ string, c *curve.Curve) { c.Step() })
	e.curves.each(func(_ string, c *curve.Curve) { c.Update() })

	// 5. cursors
	if !e.playing {
		dt = 0
	}
	e.clock += dt
	e.ticks++
	tick := cursor.Tick{
		Delta:      dt.Seconds(),
		TimeFactor: e.timeFactor,
		Timestamp:  e.clock.Milliseconds(),
	}
	e.cursors.each(func(_ string, c *cursor.Cursor) { c.Advance(tick) })

	var hits []message.Event

	// 6. triggers
	e.cursors.each(func(_ string, c *cursor.Cursor) {
		e.triggers.each(func(_ string, t *trigger.Trigger) {
			if c.HitTrigger(t) {
				t.Latch()
				hits = append(hits, c.TriggerEvent(t))
			}
		})
	})

	// 7. collisions
	e.cursors.each(func(_ string, c *cursor.Cursor) {
		if !c.Collisions() {
			return
		}
		e.curves.each(func(_ string, other *curve.Curve) {
			if col, ok := c.HitCurve(other); ok {
				hits = append(hits, c.CollisionEvent(col))
			}
		})
	})

	// 8. snapshots first, then hits
	var events []message.Event
	collect := message.SinkFunc(func(ev message.Event) { events = append(events, ev) })
	e.cursors.each(func(_ string, c *cursor.Cursor) { c.Emit(collect, false) })

	removed := e.removed
	e.removed = nil
	return append(events, hits...), removed
}
