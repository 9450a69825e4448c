package main

import (
	"sync"
	"time"
)

// Terminals send key presses only, never releases, so a key counts as held
// for holdWindow after its last repeat.
const terminalHoldWindow = 150 * time.Millisecond

const (
	asciiETX = 0x03 // Ctrl+C in raw mode
	asciiESC = 0x1B
)

type keyDecoderState int

const (
	decodeIdle keyDecoderState = iota
	decodeEscape
	decodeCSI
)

// keyDecoder turns raw terminal bytes into keys. Arrow keys arrive as
// ESC [ A..D; a lone ESC only resolves on the next byte or flush.
type keyDecoder struct {
	state keyDecoderState
}

// feed consumes one byte and reports a decoded key, or quit for Ctrl+C.
func (d *keyDecoder) feed(b byte) (key Key, ok bool, quit bool) {
	switch d.state {
	case decodeEscape:
		if b == '[' {
			d.state = decodeCSI
			return 0, false, false
		}
		d.state = decodeIdle
		if b == asciiESC {
			d.state = decodeEscape
		}
		return KeyEscape, true, false
	case decodeCSI:
		d.state = decodeIdle
		switch b {
		case 'A':
			return KeyUp, true, false
		case 'B':
			return KeyDown, true, false
		case 'C':
			return KeyRight, true, false
		case 'D':
			return KeyLeft, true, false
		}
		return 0, false, false
	}

	switch b {
	case asciiESC:
		d.state = decodeEscape
	case asciiETX:
		return 0, false, true
	case 'q', 'Q':
		return KeyEscape, true, false
	case 'w', 'W':
		return KeyUp, true, false
	case 's', 'S':
		return KeyDown, true, false
	case 'a', 'A':
		return KeyLeft, true, false
	case 'd', 'D':
		return KeyRight, true, false
	}
	return 0, false, false
}

// flush resolves a pending lone ESC.
func (d *keyDecoder) flush() (Key, bool) {
	if d.state == decodeEscape {
		d.state = decodeIdle
		return KeyEscape, true
	}
	d.state = decodeIdle
	return 0, false
}

// terminalKeys records key presses from the terminal reader goroutine and
// answers held-key queries from the frame loop.
type terminalKeys struct {
	mu        sync.Mutex
	queue     *eventQueue
	decoder   keyDecoder
	lastPress map[Key]time.Time
	hold      time.Duration
	now       func() time.Time
}

func newTerminalKeys(queue *eventQueue) *terminalKeys {
	return &terminalKeys{
		queue:     queue,
		lastPress: make(map[Key]time.Time),
		hold:      terminalHoldWindow,
		now:       time.Now,
	}
}

func (t *terminalKeys) feed(b byte) {
	t.mu.Lock()
	key, ok, quit := t.decoder.feed(b)
	if ok {
		t.lastPress[key] = t.now()
	}
	t.mu.Unlock()

	if quit {
		t.queue.Push(Event{Type: EventQuit})
		return
	}
	if ok && key == KeyEscape {
		t.queue.Push(Event{Type: EventKey, Key: KeyEscape, Down: true})
	}
}

// idle is called when the reader found no input, resolving a lone ESC.
func (t *terminalKeys) idle() {
	t.mu.Lock()
	key, ok := t.decoder.flush()
	if ok {
		t.lastPress[key] = t.now()
	}
	t.mu.Unlock()
	if ok && key == KeyEscape {
		t.queue.Push(Event{Type: EventKey, Key: KeyEscape, Down: true})
	}
}

func (t *terminalKeys) held() KeySet {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	var keys KeySet
	for key, at := range t.lastPress {
		if now.Sub(at) <= t.hold {
			keys = keys.With(key)
		}
	}
	return keys
}
