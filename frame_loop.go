// frame_loop.go - Per-frame sequencing of input, video and audio

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type LoopState int

const (
	LoopRunning LoopState = iota
	LoopStopped
)

func (s LoopState) String() string {
	if s == LoopStopped {
		return "stopped"
	}
	return "running"
}

// FrameOffsets are the pattern scroll offsets driven by input.
type FrameOffsets struct {
	X     int
	Y     int
	Speed int
}

type FrameLoopConfig struct {
	LatencySamples int
	Speed          int
	ToneStep       int
	AutoScroll     bool
	ReportTiming   bool
	ReportEvery    int
}

// FrameLoop owns every per-frame resource and runs one frame per Step.
// It is single-threaded; the audio device goroutine touches only the ring.
type FrameLoop struct {
	state   LoopState
	cfg     FrameLoopConfig
	input   InputSource
	surface *PixelSurface
	pattern PatternFunc
	synth   *ToneSynthesizer

	ring         *AudioRing  // nil while running video-only
	audio        AudioOutput // may be nil with a ring in tests
	audioStarted bool

	offsets FrameOffsets
	frames  uint64
	timer   frameTimer
	status  *runtimeStatusStore
}

func NewFrameLoop(input InputSource, surface *PixelSurface, pattern PatternFunc, synth *ToneSynthesizer, cfg FrameLoopConfig) *FrameLoop {
	if cfg.ReportEvery <= 0 {
		cfg.ReportEvery = 60
	}
	return &FrameLoop{
		cfg:     cfg,
		input:   input,
		surface: surface,
		pattern: pattern,
		synth:   synth,
		offsets: FrameOffsets{Speed: cfg.Speed},
		timer:   frameTimer{now: time.Now},
		status:  &runtimeStatusStore{},
	}
}

// AttachAudio connects an opened ring and its device. Playback starts after
// the first frame has written samples.
func (l *FrameLoop) AttachAudio(ring *AudioRing, out AudioOutput, spec AudioSpec) {
	l.ring = ring
	l.audio = out
	l.status.setAudio(ring != nil, spec)
}

func (l *FrameLoop) State() LoopState { return l.state }

func (l *FrameLoop) Offsets() FrameOffsets { return l.offsets }

func (l *FrameLoop) Frames() uint64 { return l.frames }

func (l *FrameLoop) Status() *runtimeStatusStore { return l.status }

// Step runs one frame: drain input, update offsets and tone, regenerate
// pixels, fill audio up to the latency target, present. It returns
// errLoopStopped once the loop has stopped; any other error is fatal.
func (l *FrameLoop) Step() error {
	if l.state == LoopStopped {
		return errLoopStopped
	}

	quit, err := l.drainEvents()
	if err != nil {
		return err
	}
	keys := l.input.KeyState()
	if quit || keys.Has(KeyEscape) {
		l.state = LoopStopped
		return errLoopStopped
	}

	l.applyInput(keys)
	Render(l.surface, l.pattern, l.offsets.X, l.offsets.Y)

	samples, err := l.fillAudio()
	if err != nil {
		return err
	}
	if err := l.surface.Present(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}

	l.frames++
	l.recordTiming(samples)
	return nil
}

func (l *FrameLoop) drainEvents() (quit bool, err error) {
	for {
		ev, ok := l.input.PollEvent()
		if !ok {
			return false, nil
		}
		switch ev.Type {
		case EventQuit:
			return true, nil
		case EventKey:
			if ev.Key == KeyEscape && ev.Down {
				return true, nil
			}
		case EventResize:
			if err := l.surface.Resize(ev.Width, ev.Height); err != nil {
				return false, err
			}
		case EventTone:
			l.synth.SetFrequency(ev.ToneHz)
		}
	}
}

func (l *FrameLoop) applyInput(keys KeySet) {
	if keys.Has(KeyUp) {
		l.offsets.Y -= l.offsets.Speed
		l.synth.SetFrequency(l.synth.ToneHz() + l.cfg.ToneStep)
	}
	if keys.Has(KeyDown) {
		l.offsets.Y += l.offsets.Speed
		l.synth.SetFrequency(l.synth.ToneHz() - l.cfg.ToneStep)
	}
	if keys.Has(KeyLeft) {
		l.offsets.X -= l.offsets.Speed
	}
	if keys.Has(KeyRight) {
		l.offsets.X += l.offsets.Speed
	}
	if l.cfg.AutoScroll {
		l.offsets.X++
	}
}

// fillAudio writes the window between the lock point and play + latency.
// The play cursor is only read inside ComputeFillWindow; synthesis runs
// without the lock held.
func (l *FrameLoop) fillAudio() (int, error) {
	if l.ring == nil {
		return 0, nil
	}
	frameBytes := l.ring.FrameBytes()
	lockPoint, length := l.ring.ComputeFillWindow(l.synth.RunningSampleIndex(), frameBytes, l.cfg.LatencySamples)
	if err := l.ring.WriteWindow(lockPoint, length, l.synth); err != nil {
		return 0, fmt.Errorf("fill audio: %w", err)
	}
	if !l.audioStarted && l.audio != nil {
		l.audio.Start()
		l.audioStarted = true
	}
	return length / frameBytes, nil
}

func (l *FrameLoop) recordTiming(samples int) {
	elapsed := l.timer.lap()
	l.status.setFrame(l.frames, elapsed, samples, l.surface.Width(), l.surface.Height())
	if l.ring != nil {
		play, write, consumed := l.ring.Cursors()
		l.status.setCursors(l.synth.ToneHz(), play, write, consumed)
	}
	if l.cfg.ReportTiming && l.frames%uint64(l.cfg.ReportEvery) == 0 && elapsed > 0 {
		fmt.Printf("%.2fms/f, %.2ff/s, %d samples/f\n",
			float64(elapsed)/float64(time.Millisecond),
			float64(time.Second)/float64(elapsed),
			samples)
	}
}

// Run hands Step to the video service until the loop stops, then releases
// everything. Cancelling ctx counts as a quit signal.
func (l *FrameLoop) Run(ctx context.Context, video VideoOutput) error {
	err := video.Run(ctx, func() error {
		if ctx.Err() != nil {
			l.state = LoopStopped
			return errLoopStopped
		}
		return l.Step()
	})
	l.state = LoopStopped
	shutdownErr := l.Shutdown()
	if err != nil && !errors.Is(err, errLoopStopped) {
		return err
	}
	return shutdownErr
}

// Shutdown releases resources in reverse acquisition order: audio device,
// ring, then the pixel surface and its target.
func (l *FrameLoop) Shutdown() error {
	if l.audio != nil {
		l.audio.Close()
		l.audio = nil
	}
	l.ring = nil
	l.audioStarted = false
	return l.surface.Release()
}

type frameTimer struct {
	now  func() time.Time
	last time.Time
}

// lap returns the time since the previous lap, zero on the first call.
func (t *frameTimer) lap() time.Duration {
	now := t.now()
	var elapsed time.Duration
	if !t.last.IsZero() {
		elapsed = now.Sub(t.last)
	}
	t.last = now
	return elapsed
}

// openAudio sizes a ring to one second of audio and opens the device on
// it. A device that grants a different format is closed again and a
// *FormatMismatchWarning returned so the caller can continue video-only.
func openAudio(out AudioOutput, spec AudioSpec, safetyFrames int) (*AudioRing, error) {
	frameBytes := spec.BytesPerFrame()
	ring, err := NewAudioRing(spec.SampleRate*frameBytes, frameBytes, safetyFrames*frameBytes)
	if err != nil {
		return nil, err
	}
	granted, err := out.Open(spec, ring)
	if err != nil {
		return nil, &InitError{Subsystem: "audio", Details: "open device", Err: err}
	}
	if !audioSpecMatches(spec, granted) {
		out.Close()
		return nil, &FormatMismatchWarning{Requested: spec, Granted: granted}
	}
	return ring, nil
}
