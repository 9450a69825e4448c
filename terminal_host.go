//go:build !windows

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
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
	nonblockSet  bool
	oldTermState *term.State
}

func NewTerminalHost(keys *terminalKeys) *TerminalHost {
	return &TerminalHost{
		keys:   keys,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin in raw non-blocking mode and begins reading in a
// goroutine. It returns false, leaving stdin untouched, when stdin is not a
// terminal. Call Stop() to restore stdin.
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

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		fmt.Fprintf(os.Stderr, "input: failed to set nonblocking stdin: %v\n", err)
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return false
	}
	h.nonblockSet = true

	go func() {
		defer close(h.done)
		buf := make([]byte, 16)

		for {
			select {
			case <-h.stopCh:
				return
			default:
			}

			n, err := syscall.Read(h.fd, buf)
			for _, b := range buf[:max(n, 0)] {
				h.keys.feed(b)
			}
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
				h.keys.idle()
				time.Sleep(5 * time.Millisecond)
				continue
			}
			if err != nil {
				return
			}
		}
	}()
	return true
}

// Stop terminates the reading goroutine and restores stdin.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
