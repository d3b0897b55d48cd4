package transport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/playhead/internal/message"
)

type countingStepper struct {
	mu    sync.Mutex
	ticks int
	total time.Duration
}

func (s *countingStepper) Tick(dt time.Duration) []message.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++
	s.total += dt
	return nil
}

func TestDriverTicksUntilCancelled(t *testing.T) {
	s := &countingStepper{}
	d := NewDriver(s, 100)
	assert.Equal(t, 10*time.Millisecond, d.Interval())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := d.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Greater(t, s.ticks, 3)
	assert.LessOrEqual(t, s.total, 150*time.Millisecond+maxStep)
}

func TestDriverDefaultRate(t *testing.T) {
	d := NewDriver(&countingStepper{}, 0)
	assert.Equal(t, time.Second/60, d.Interval())
}
