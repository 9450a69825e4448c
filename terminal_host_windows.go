//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// TerminalHost reads raw stdin and feeds key bytes into terminalKeys.
// Only started when stdin is a terminal, never in tests.
type TerminalHost struct {
	keys         *terminalKeys
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	oldTermState *term.State
}

func NewTerminalHost(keys *terminalKeys) *TerminalHost {
	return &TerminalHost{
		keys:   keys,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start sets stdin to raw mode and begins reading. Console reads block, so
// bytes are handed over a channel and a quiet period resolves a lone ESC.
// Call Stop() to restore stdin.
func (h *TerminalHost) Start() bool {
	h.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(h.fd) {
		close(h.done)
		return false
	}

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input: failed to set raw mode: %v\n", err)
		close(h.done)
		return false
	}
	h.oldTermState = oldState

	bytesCh := make(chan byte, 64)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				select {
				case bytesCh <- buf[0]:
				case <-h.stopCh:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	go func() {
		defer close(h.done)
		quiet := time.NewTicker(20 * time.Millisecond)
		defer quiet.Stop()
		for {
			select {
			case <-h.stopCh:
				return
			case b := <-bytesCh:
				h.keys.feed(b)
			case <-quiet.C:
				h.keys.idle()
			}
		}
	}()
	return true
}

// Stop terminates the key dispatch goroutine and restores terminal state.
// A console read already in flight is abandoned.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
