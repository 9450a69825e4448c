//go:build headless

// video_backend_headless.go - Windowless video output paced by a ticker

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
	"sync"
	"sync/atomic"
	"time"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video: headless")
}

// HeadlessVideoOutput keeps target bookkeeping and the last blitted frame
// without opening a window. RefreshRate 0 runs unthrottled.
type HeadlessVideoOutput struct {
	mu         sync.Mutex
	config     DisplayConfig
	targets    map[TargetHandle][2]int
	nextHandle TargetHandle
	lastFrame  []byte
	queue      *eventQueue
	terminal   *TerminalHost
	frameCount atomic.Uint64
	frameLimit uint64
}

// headlessInput merges queued events with keys held on the terminal.
type headlessInput struct {
	queue *eventQueue
	keys  *terminalKeys
}

func (in headlessInput) PollEvent() (Event, bool) { return in.queue.PollEvent() }

func (in headlessInput) KeyState() KeySet {
	return in.queue.KeyState() | in.keys.held()
}

func newPlatform(display DisplayConfig, frameLimit int) (VideoOutput, InputSource, error) {
	h := NewHeadlessVideoOutput(display, frameLimit)
	keys := newTerminalKeys(h.queue)
	h.terminal = NewTerminalHost(keys)
	if !h.terminal.Start() {
		h.terminal = nil
	}
	return h, headlessInput{queue: h.queue, keys: keys}, nil
}

func NewHeadlessVideoOutput(display DisplayConfig, frameLimit int) *HeadlessVideoOutput {
	return &HeadlessVideoOutput{
		config:     display,
		targets:    make(map[TargetHandle][2]int),
		queue:      &eventQueue{},
		frameLimit: uint64(max(frameLimit, 0)),
	}
}

func (h *HeadlessVideoOutput) Queue() *eventQueue { return h.queue }

func (h *HeadlessVideoOutput) CreateTarget(width, height int) (TargetHandle, error) {
	if width <= 0 || height <= 0 {
		return noTarget, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextHandle++
	h.targets[h.nextHandle] = [2]int{width, height}
	h.lastFrame = make([]byte, width*height*BYTES_PER_PIXEL)
	return h.nextHandle, nil
}

func (h *HeadlessVideoOutput) DestroyTarget(handle TargetHandle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.targets[handle]; !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	delete(h.targets, handle)
	return nil
}

func (h *HeadlessVideoOutput) Blit(handle TargetHandle, pixels []byte, pitch int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	size, ok := h.targets[handle]
	if !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	if pitch < size[0]*BYTES_PER_PIXEL || len(pixels) < pitch*size[1] {
		return fmt.Errorf("blit of %d bytes with pitch %d does not cover %dx%d", len(pixels), pitch, size[0], size[1])
	}
	for y := range size[1] {
		row := size[0] * BYTES_PER_PIXEL
		copy(h.lastFrame[y*row:(y+1)*row], pixels[y*pitch:y*pitch+row])
	}
	return nil
}

func (h *HeadlessVideoOutput) Present(handle TargetHandle) error {
	h.mu.Lock()
	_, ok := h.targets[handle]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	if n := h.frameCount.Add(1); h.frameLimit > 0 && n >= h.frameLimit {
		h.queue.Push(Event{Type: EventQuit})
	}
	return nil
}

// LastFrame returns a copy of the most recent blit, tightly packed.
func (h *HeadlessVideoOutput) LastFrame() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.lastFrame...)
}

func (h *HeadlessVideoOutput) TargetCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.targets)
}

func (h *HeadlessVideoOutput) Run(ctx context.Context, tick func() error) error {
	var pace <-chan time.Time
	if h.config.RefreshRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(h.config.RefreshRate))
		defer ticker.Stop()
		pace = ticker.C
	}
	for {
		if err := tick(); err != nil {
			if errors.Is(err, errLoopStopped) {
				return nil
			}
			return err
		}
		if pace == nil {
			if ctx.Err() != nil {
				h.queue.Push(Event{Type: EventQuit})
			}
			continue
		}
		select {
		case <-ctx.Done():
			h.queue.Push(Event{Type: EventQuit})
		case <-pace:
		}
	}
}

func (h *HeadlessVideoOutput) Close() error {
	if h.terminal != nil {
		h.terminal.Stop()
		h.terminal = nil
	}
	return nil
}

func (h *HeadlessVideoOutput) GetFrameCount() uint64 {
	return h.frameCount.Load()
}

func (h *HeadlessVideoOutput) GetRefreshRate() int {
	if h.config.RefreshRate == 0 {
		return DEFAULT_REFRESH_RATE
	}
	return h.config.RefreshRate
}
