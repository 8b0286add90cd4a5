package main

import (
	"fmt"
	"os"

	"github.com/amigacore/coreemu/internal/audio"
	"github.com/amigacore/coreemu/internal/machine"
	"github.com/amigacore/coreemu/internal/script"
)

// Runtime holds everything both front ends (windowed and headless)
// share: the machine itself, the optional script engine, and the
// frame/screenshot bookkeeping CLI flags configure.
type Runtime struct {
	Machine        *machine.Machine
	ScriptPath     string
	Frames         int
	ScreenshotPath string

	engine      *script.Engine
	lastFrame   []byte
	lastSamples []audio.Stereo
	frameNum    int
}

// runScriptIfConfigured loads and executes the configured Lua script
// once, ahead of the interactive loop, mirroring how a test harness or
// input macro would drive a run non-interactively.
func (rt *Runtime) runScriptIfConfigured() error {
	if rt.ScriptPath == "" {
		return nil
	}
	rt.engine = script.New(rt.Machine)
	if err := rt.engine.RunFile(rt.ScriptPath); err != nil {
		return fmt.Errorf("running script %s: %w", rt.ScriptPath, err)
	}
	return nil
}

// stepFrame advances the machine by one video frame, tracks the frame
// count against the --frames budget, and reports whether the caller
// should keep going.
func (rt *Runtime) stepFrame() (keepGoing bool) {
	frame, samples := rt.Machine.TickFrame()
	rt.lastFrame = frame
	rt.lastSamples = samples
	rt.frameNum++
	if rt.Frames > 0 && rt.frameNum >= rt.Frames {
		return false
	}
	return true
}

// writeScreenshotIfConfigured dumps the last presented frame as a raw
// RGB byte stream; decoding it into a PNG or similar is explicitly the
// collaborator's job (spec.md's out-of-scope "headless screenshot
// capture"), so this writes the same triplet-per-pixel format
// internal/machine.TickFrame already returns.
func (rt *Runtime) writeScreenshotIfConfigured() error {
	if rt.ScreenshotPath == "" || rt.lastFrame == nil {
		return nil
	}
	return os.WriteFile(rt.ScreenshotPath, rt.lastFrame, 0o644)
}
