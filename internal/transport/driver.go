// Package transport drives an engine from the wall clock.
package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/inamate/playhead/internal/message"
)

// maxStep caps a single tick so a stalled process does not teleport cursors.
const maxStep = 250 * time.Millisecond

// Stepper is what a Driver ticks. *engine.Engine satisfies it.
type Stepper interface {
	Tick(dt time.Duration) []message.Event
}

type Driver struct {
	target   Stepper
	interval time.Duration
}

// NewDriver ticks target fps times per second. Non-positive fps means 60.
func NewDriver(target Stepper, fps int) *Driver {
	if fps <= 0 {
		fps = 60
	}
	return &Driver{target: target, interval: time.Second / time.Duration(fps)}
}

func (d *Driver) Interval() time.Duration { return d.interval }

// Run ticks until ctx is done and returns ctx.Err().
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	slog.Info("transport running", "interval", d.interval)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("transport stopped")
			return ctx.Err()
		case now := <-ticker.C:
			dt := min(now.Sub(last), maxStep)
			last = now
			d.target.Tick(dt)
		}
	}
}
