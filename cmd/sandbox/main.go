// Command sandbox previews a scene in the terminal and beeps on trigger hits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/inamate/playhead/internal/engine"
	"github.com/inamate/playhead/internal/message"
)

const hitFlash = 200 * time.Millisecond

type sandbox struct {
	screen tcell.Screen
	eng    *engine.Engine
	audio  *cue
	// last hit time per trigger id
	hits map[string]time.Time
}

func (sb *sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case ' ':
			sb.eng.TogglePlay()
		case 'r':
			sb.eng.Rewind()
		case '+', '=':
			sb.eng.SetTimeFactor(sb.eng.Playback().TimeFactor * 1.25)
		case '-':
			sb.eng.SetTimeFactor(sb.eng.Playback().TimeFactor / 1.25)
		}
	case *tcell.EventResize:
		sb.screen.Sync()
	}
	return true
}

// handleEvents sounds the cue for trigger hits.
func (sb *sandbox) handleEvents(events []message.Event, now time.Time) {
	for _, ev := range events {
		if ev.Kind != message.KindTrigger {
			continue
		}
		sb.hits[ev.TriggerID] = now
		sb.audio.play(ev.Point.Y)
	}
}

func (sb *sandbox) frame(now time.Time) frame {
	curves := sb.eng.Curves()
	for i, c := range curves {
		if full, err := sb.eng.Curve(c.ID); err == nil {
			curves[i] = full
		}
	}
	return frame{
		curves:   curves,
		cursors:  sb.eng.Cursors(),
		triggers: sb.eng.Triggers(),
		playback: sb.eng.Playback(),
		hit: func(id string) bool {
			t, ok := sb.hits[id]
			return ok && now.Sub(t) < hitFlash
		},
	}
}

func (sb *sandbox) run(fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- sb.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !sb.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			sb.handleEvents(sb.eng.Tick(dt), now)
			draw(sb.screen, sb.frame(now))
		}
	}
}

func main() {
	fps := flag.Int("fps", 30, "frames per second")
	speed := flag.Float64("speed", 1, "initial time factor")
	mute := flag.Bool("mute", false, "disable trigger cues")
	flag.Parse()

	// The terminal belongs to the preview; keep logs quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	eng := engine.New(engine.WithTimeFactor(*speed))
	if err := eng.LoadSampleScene(); err != nil {
		fmt.Fprintf(os.Stderr, "load sample scene: %v\n", err)
		os.Exit(1)
	}
	eng.Play()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	audio := &cue{}
	if !*mute {
		// Non-fatal, the preview runs without sound
		if audio, err = newCue(); err != nil {
			slog.Error("init audio", "error", err)
		}
	}
	defer audio.close()

	sb := &sandbox{screen: screen, eng: eng, audio: audio, hits: make(map[string]time.Time)}
	sb.run(max(*fps, 1))
}
