//go:build !linux || !alsa || headless

package main

func newALSAOutput() (AudioOutput, error) {
	return nil, &InitError{
		Subsystem: "audio",
		Details:   "alsa backend not compiled in (build with -tags alsa on linux)",
	}
}
