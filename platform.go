// platform.go - Video, audio and input collaborator interfaces

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
	"fmt"
	"sync"
)

// TargetHandle identifies a presentation target owned by a VideoOutput.
type TargetHandle int

const noTarget TargetHandle = 0

// DisplayConfig contains hardware-independent configuration
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int // Integer scaling factor for output
	Title       string
	Resizable   bool
	Fullscreen  bool
	RefreshRate int  // Target refresh rate in Hz
	VSync       bool // Whether to sync frame updates to display refresh
}

// VideoOutput is the window/video service the frame loop presents through.
type VideoOutput interface {
	CreateTarget(width, height int) (TargetHandle, error)
	DestroyTarget(handle TargetHandle) error
	Blit(handle TargetHandle, pixels []byte, pitch int) error
	Present(handle TargetHandle) error

	// Run drives tick once per display frame until tick returns
	// errLoopStopped, the window closes or ctx is cancelled.
	Run(ctx context.Context, tick func() error) error
	Close() error

	GetFrameCount() uint64
	GetRefreshRate() int
}

type SampleFormat int

const (
	SampleFormatS16LE SampleFormat = iota
	SampleFormatF32LE
	SampleFormatU8
)

func (f SampleFormat) String() string {
	switch f {
	case SampleFormatS16LE:
		return "s16le"
	case SampleFormatF32LE:
		return "f32le"
	case SampleFormatU8:
		return "u8"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// AudioSpec describes the stream requested from, or granted by, an audio device.
type AudioSpec struct {
	SampleRate        int
	Channels          int
	Format            SampleFormat
	FramesPerCallback int
}

// BytesPerFrame returns the size of one interleaved sample frame.
func (s AudioSpec) BytesPerFrame() int {
	size := 2
	switch s.Format {
	case SampleFormatF32LE:
		size = 4
	case SampleFormatU8:
		size = 1
	}
	return size * s.Channels
}

func (s AudioSpec) String() string {
	return fmt.Sprintf("%d Hz %dch %s", s.SampleRate, s.Channels, s.Format)
}

// AudioConsumer is called from the audio device's own execution context
// whenever the device needs more bytes.
type AudioConsumer interface {
	ConsumerRead(dst []byte) int
}

// AudioOutput is the audio service. Open returns the spec the device
// actually granted, which may differ from the requested one.
type AudioOutput interface {
	Open(spec AudioSpec, consumer AudioConsumer) (AudioSpec, error)
	Start()
	Close()
	IsStarted() bool
}

// Predefined audio backend types
const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_ALSA
	AUDIO_BACKEND_NONE
)

func audioBackendFromName(name string) (int, error) {
	switch name {
	case "", "oto":
		return AUDIO_BACKEND_OTO, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "none", "off":
		return AUDIO_BACKEND_NONE, nil
	}
	return 0, fmt.Errorf("unknown audio backend: %q", name)
}

// NewAudioOutput creates a new audio output instance using the specified backend
func NewAudioOutput(backend int) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoPlayer(), nil
	case AUDIO_BACKEND_ALSA:
		return newALSAOutput()
	}
	return nil, &InitError{
		Subsystem: "audio",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}

type EventType int

const (
	EventQuit EventType = iota
	EventResize
	EventKey
	EventTone
)

// Event is one discrete item from the platform input queue.
type Event struct {
	Type   EventType
	Width  int // EventResize
	Height int // EventResize
	Key    Key // EventKey
	Down   bool
	ToneHz int // EventTone
}

type Key uint8

const (
	KeyUp Key = 1 << iota
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
)

// KeySet is the set of currently held keys.
type KeySet uint8

func (s KeySet) Has(k Key) bool { return s&KeySet(k) != 0 }

func (s KeySet) With(k Key) KeySet { return s | KeySet(k) }

// InputSource is the input service.
type InputSource interface {
	PollEvent() (Event, bool)
	KeyState() KeySet
}

// eventQueue is the FIFO both platform backends deliver events through.
// Push may be called from any goroutine.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	keys   KeySet
}

func (q *eventQueue) Push(ev Event) {
	q.mu.Lock()
	if ev.Type == EventKey {
		if ev.Down {
			q.keys |= KeySet(ev.Key)
		} else {
			q.keys &^= KeySet(ev.Key)
		}
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *eventQueue) PollEvent() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return ev, true
}

func (q *eventQueue) SetKeys(keys KeySet) {
	q.mu.Lock()
	q.keys = keys
	q.mu.Unlock()
}

func (q *eventQueue) KeyState() KeySet {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.keys
}
