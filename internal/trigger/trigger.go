// Package trigger holds the spatial sensors that cursors fire when they cross
// them.
package trigger

import "github.com/inamate/playhead/internal/geom"

type Trigger struct {
	ID string `json:"id"`

	position geom.Vec3
	active   bool
	lastHit  int64
	latched  bool
}

func New(id string, position geom.Vec3) *Trigger {
	return &Trigger{ID: id, position: position, active: true}
}

func (t *Trigger) Position() geom.Vec3     { return t.position }
func (t *Trigger) SetPosition(p geom.Vec3) { t.position = p }
func (t *Trigger) Active() bool            { return t.active }
func (t *Trigger) SetActive(active bool)   { t.active = active }

// LastHit is the transport time in milliseconds of the most recent hit.
func (t *Trigger) LastHit() int64 { return t.lastHit }

func (t *Trigger) SetLastHit(ms int64) { t.lastHit = ms }

// Latched reports whether the trigger already fired since the owner last
// cleared it.
func (t *Trigger) Latched() bool { return t.latched }

func (t *Trigger) Latch()   { t.latched = true }
func (t *Trigger) Unlatch() { t.latched = false }
