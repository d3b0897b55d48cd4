package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	cueLength  = 60 * time.Millisecond
)

// cue plays a short sine tone per trigger hit. Without an audio device it
// stays silent.
type cue struct {
	enabled bool
}

func newCue() (*cue, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return &cue{}, err
	}
	return &cue{enabled: true}, nil
}

// pitch spreads trigger heights over two octaves above A4.
func pitch(y float64) float64 {
	return 440 * (1 + clamp01((y+10)/20)*3)
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func (c *cue) play(y float64) {
	if !c.enabled {
		return
	}
	sine, err := generators.SineTone(sampleRate, pitch(y))
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(cueLength), sine))
}

func (c *cue) close() {
	if c.enabled {
		speaker.Close()
	}
}
