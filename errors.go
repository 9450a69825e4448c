// errors.go - Error taxonomy for the platform loop

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
	"errors"
	"fmt"
)

var (
	ErrWindowOutOfRange   = errors.New("audio window out of range")
	ErrMisalignedWindow   = errors.New("audio window not frame aligned")
	ErrInvalidSurfaceSize = errors.New("invalid surface size")

	// errLoopStopped is returned by a frame tick once the loop has reached
	// its terminal state; backends treat it as a clean exit.
	errLoopStopped = errors.New("frame loop stopped")
)

// InitError reports a device or subsystem that failed to come up. It is
// fatal: reported once, then the process exits non-zero.
type InitError struct {
	Subsystem string // "video", "audio", "input", "config"
	Details   string
	Err       error
}

func (e *InitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s init failed: %s: %v", e.Subsystem, e.Details, e.Err)
	}
	return fmt.Sprintf("%s init failed: %s", e.Subsystem, e.Details)
}

func (e *InitError) Unwrap() error { return e.Err }

// ResizeError reports a pixel surface that could not be reallocated.
type ResizeError struct {
	Width  int
	Height int
	Err    error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("resize surface to %dx%d failed: %v", e.Width, e.Height, e.Err)
}

func (e *ResizeError) Unwrap() error { return e.Err }

// FormatMismatchWarning is raised when the audio device grants a stream
// format other than the one requested. The audio path is closed and the
// program keeps running video-only.
type FormatMismatchWarning struct {
	Requested AudioSpec
	Granted   AudioSpec
}

func (w *FormatMismatchWarning) Error() string {
	return fmt.Sprintf("audio format mismatch: requested %s, granted %s", w.Requested, w.Granted)
}

func audioSpecMatches(requested, granted AudioSpec) bool {
	return requested.SampleRate == granted.SampleRate &&
		requested.Channels == granted.Channels &&
		requested.Format == granted.Format
}
