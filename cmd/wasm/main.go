//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/inamate/playhead/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.New()

	playhead := js.Global().Get("Object").New()

	// --- Commands (host → engine) ---
	playhead.Set("submit", js.FuncOf(submit))
	playhead.Set("loadSampleScene", js.FuncOf(loadSampleScene))
	playhead.Set("clear", js.FuncOf(clearScene))
	playhead.Set("play", js.FuncOf(play))
	playhead.Set("pause", js.FuncOf(pause))
	playhead.Set("togglePlay", js.FuncOf(togglePlay))
	playhead.Set("rewind", js.FuncOf(rewind))
	playhead.Set("setTimeFactor", js.FuncOf(setTimeFactor))
	playhead.Set("tick", js.FuncOf(tick))

	// --- Queries (host ← engine) ---
	playhead.Set("getCurves", js.FuncOf(getCurves))
	playhead.Set("getCurve", js.FuncOf(getCurve))
	playhead.Set("getCursors", js.FuncOf(getCursors))
	playhead.Set("getCursor", js.FuncOf(getCursor))
	playhead.Set("getTriggers", js.FuncOf(getTriggers))
	playhead.Set("getPlaybackState", js.FuncOf(getPlaybackState))
	playhead.Set("isPlaying", js.FuncOf(isPlaying))

	js.Global().Set("playheadEngine", playhead)
	js.Global().Set("playheadWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

// toJSON returns v as a JSON string; the host parses it.
func toJSON(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(string(data))
}

// --- Command Handlers ---

// submit takes an operation as JSON and returns {"ok":true,"target":id} or
// {"error":...}.
func submit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing operation JSON"})
	}
	var op engine.Operation
	if err := json.Unmarshal([]byte(args[0].String()), &op); err != nil {
		return errorResult(err)
	}
	target, err := eng.Submit(op)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "target": target})
}

func loadSampleScene(this js.Value, args []js.Value) interface{} {
	if err := eng.LoadSampleScene(); err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func clearScene(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

func play(this js.Value, args []js.Value) interface{} {
	eng.Play()
	return nil
}

func pause(this js.Value, args []js.Value) interface{} {
	eng.Pause()
	return nil
}

func togglePlay(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.TogglePlay())
}

func rewind(this js.Value, args []js.Value) interface{} {
	eng.Rewind()
	return nil
}

func setTimeFactor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetTimeFactor(args[0].Float())
	return nil
}

// tick advances by the given milliseconds (typically the requestAnimationFrame
// delta) and returns the events of that tick as JSON.
func tick(this js.Value, args []js.Value) interface{} {
	var dt time.Duration
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		dt = time.Duration(args[0].Float() * float64(time.Millisecond))
	}
	return toJSON(eng.Tick(dt))
}

// --- Query Handlers ---

func getCurves(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Curves())
}

func getCurve(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("{}")
	}
	v, err := eng.Curve(args[0].String())
	if err != nil {
		return errorResult(err)
	}
	return toJSON(v)
}

func getCursors(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Cursors())
}

func getCursor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("{}")
	}
	v, err := eng.Cursor(args[0].String())
	if err != nil {
		return errorResult(err)
	}
	return toJSON(v)
}

func getTriggers(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Triggers())
}

func getPlaybackState(this js.Value, args []js.Value) interface{} {
	return toJSON(eng.Playback())
}

func isPlaying(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Playing())
}
