package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/inamate/playhead/internal/engine"
	"github.com/inamate/playhead/internal/geom"
)

var (
	curveStyle    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	inactiveStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	cursorStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	triggerStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	hitStyle      = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle   = tcell.StyleDefault.Reverse(true)
)

// viewport maps the scene's XY plane onto terminal cells. Cells are about
// twice as tall as wide, so x gets double the scale.
type viewport struct {
	width, height int
	center        geom.Vec3
	scale         float64
}

// fit frames box in a width x height cell area, leaving the last row for the
// status line.
func fit(box geom.Box3, width, height int) viewport {
	v := viewport{width: width, height: height, center: box.Center(), scale: 1}
	rows := float64(height - 1)
	size := box.Size()
	if size.X <= 0 && size.Y <= 0 {
		return v
	}
	sx, sy := math.Inf(1), math.Inf(1)
	if size.X > 0 {
		sx = float64(width) / (2 * size.X)
	}
	if size.Y > 0 {
		sy = rows / size.Y
	}
	v.scale = 0.9 * math.Min(sx, sy)
	return v
}

// cell returns the terminal cell for p; y grows upward in the scene.
func (v viewport) cell(p geom.Vec3) (int, int, bool) {
	x := int(math.Round(float64(v.width)/2 + 2*v.scale*(p.X-v.center.X)))
	y := int(math.Round(float64(v.height-1)/2 - v.scale*(p.Y-v.center.Y)))
	return x, y, x >= 0 && x < v.width && y >= 0 && y < v.height-1
}

func (v viewport) plot(s tcell.Screen, p geom.Vec3, r rune, style tcell.Style) {
	if x, y, ok := v.cell(p); ok {
		s.SetContent(x, y, r, nil, style)
	}
}

// sceneBox is the union of all curve bounds and trigger positions.
func sceneBox(curves []engine.CurveView, triggers []engine.TriggerView) geom.Box3 {
	box := geom.Box3{Min: geom.V3(-10, -10, 0), Max: geom.V3(10, 10, 0)}
	if len(curves) == 0 && len(triggers) == 0 {
		return box
	}
	first := true
	add := func(b geom.Box3) {
		if first {
			box, first = b, false
			return
		}
		box = box.Union(b)
	}
	for _, c := range curves {
		add(c.Bounds)
	}
	for _, t := range triggers {
		add(geom.BoxFromPoints(t.Position, t.Position))
	}
	return box
}

type frame struct {
	curves   []engine.CurveView
	cursors  []engine.CursorView
	triggers []engine.TriggerView
	playback engine.PlaybackView
	// hit reports whether a trigger fired recently.
	hit func(id string) bool
}

func draw(s tcell.Screen, f frame) {
	s.Clear()
	w, h := s.Size()
	v := fit(sceneBox(f.curves, f.triggers), w, h)

	for _, c := range f.curves {
		style := curveStyle
		if !c.Active {
			style = inactiveStyle
		}
		for _, p := range c.Outline {
			v.plot(s, p, '·', style)
		}
	}
	for _, t := range f.triggers {
		style := triggerStyle
		if f.hit != nil && f.hit(t.ID) {
			style = hitStyle
		}
		v.plot(s, t.Position, '◆', style)
	}
	for _, c := range f.cursors {
		if !c.Active && c.CurveID != "" {
			v.plot(s, c.Position, 'o', inactiveStyle)
			continue
		}
		v.plot(s, c.Position, '●', cursorStyle)
	}

	state := "paused"
	if f.playback.Playing {
		state = "playing"
	}
	status := fmt.Sprintf(" %s  t=%.2fs  x%.2g  curves %d  cursors %d  triggers %d   [space] play  [r] rewind  [+/-] speed  [q] quit ",
		state, float64(f.playback.ClockMS)/1000, f.playback.TimeFactor,
		f.playback.Curves, f.playback.Cursors, f.playback.Triggers)
	for i, r := range []rune(status) {
		if i >= w {
			break
		}
		s.SetContent(i, h-1, r, nil, statusStyle)
	}
	s.Show()
}
