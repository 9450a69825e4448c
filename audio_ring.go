// audio_ring.go - Circular sample buffer shared with the audio device

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
	"fmt"
	"sync"
)

// SampleSource fills a contiguous byte region with whole sample frames.
// Successive calls continue one stream; a region boundary is never a
// discontinuity.
type SampleSource interface {
	FillRegion(region []byte) int
}

// AudioRing is the fixed-capacity ring the frame loop writes ahead into
// and the audio device reads out of on its own goroutine.
//
// Only the cursors are guarded. Buffer bytes are written without the lock:
// the producer only ever writes the window [lockPoint, play+latency), which
// the consumer has already drained.
type AudioRing struct {
	mu          sync.Mutex
	playCursor  int
	writeCursor int
	consumed    uint64

	data          []byte
	frameBytes    int
	safetyLatency int
}

// NewAudioRing allocates a ring of capacityBytes. Capacity must be a whole
// number of frames; safetyLatencyBytes sets how far the advisory write
// cursor sits ahead of the play cursor.
func NewAudioRing(capacityBytes, frameBytes, safetyLatencyBytes int) (*AudioRing, error) {
	if frameBytes <= 0 || capacityBytes <= 0 || capacityBytes%frameBytes != 0 {
		return nil, &InitError{
			Subsystem: "audio",
			Details:   fmt.Sprintf("ring capacity %d is not a whole number of %d-byte frames", capacityBytes, frameBytes),
		}
	}
	if safetyLatencyBytes < 0 || safetyLatencyBytes >= capacityBytes {
		return nil, &InitError{
			Subsystem: "audio",
			Details:   fmt.Sprintf("safety latency %d outside ring of %d bytes", safetyLatencyBytes, capacityBytes),
		}
	}
	return &AudioRing{
		data:          make([]byte, capacityBytes),
		frameBytes:    frameBytes,
		safetyLatency: safetyLatencyBytes,
		writeCursor:   safetyLatencyBytes,
	}, nil
}

func (r *AudioRing) Capacity() int { return len(r.data) }

func (r *AudioRing) FrameBytes() int { return r.frameBytes }

// regions maps [start, start+length) modulo capacity onto at most two
// contiguous slices of the backing buffer.
func (r *AudioRing) regions(start, length int) (first, second []byte) {
	n1 := min(length, len(r.data)-start)
	first = r.data[start : start+n1]
	if n2 := length - n1; n2 > 0 {
		second = r.data[:n2]
	}
	return first, second
}

// WriteWindow fills lengthBytes starting at lockPoint from src, splitting
// at the end of the buffer. Both regions are filled from the same source
// in order, so the stream continues across the wrap.
func (r *AudioRing) WriteWindow(lockPoint, lengthBytes int, src SampleSource) error {
	capacity := len(r.data)
	if lockPoint < 0 || lockPoint >= capacity || lengthBytes < 0 || lengthBytes > capacity {
		return fmt.Errorf("%w: lock point %d, length %d, capacity %d", ErrWindowOutOfRange, lockPoint, lengthBytes, capacity)
	}
	if lockPoint%r.frameBytes != 0 || lengthBytes%r.frameBytes != 0 {
		return fmt.Errorf("%w: lock point %d, length %d, frame %d", ErrMisalignedWindow, lockPoint, lengthBytes, r.frameBytes)
	}
	if lengthBytes == 0 {
		return nil
	}

	first, second := r.regions(lockPoint, lengthBytes)
	src.FillRegion(first)
	if second != nil {
		src.FillRegion(second)
	}
	return nil
}

// ConsumerRead copies len(dst) bytes starting at the play cursor, wrapping
// at capacity, then advances the play cursor and moves the write cursor to
// play + safety latency. Called from the audio device's goroutine.
func (r *AudioRing) ConsumerRead(dst []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.data)
	n := 0
	for n < len(dst) {
		chunk := copy(dst[n:], r.data[r.playCursor:])
		n += chunk
		r.playCursor = (r.playCursor + chunk) % capacity
	}
	r.writeCursor = (r.playCursor + r.safetyLatency) % capacity
	r.consumed += uint64(n)
	return n
}

// ComputeFillWindow returns where the next write starts and how many bytes
// keep the buffer filled latencySamples ahead of the play cursor. The play
// cursor is read once under the lock; the caller writes after the lock is
// released.
func (r *AudioRing) ComputeFillWindow(runningSampleIndex int64, bytesPerSample, latencySamples int) (lockPoint, lengthBytes int) {
	capacity := len(r.data)
	lockPoint = int((runningSampleIndex * int64(bytesPerSample)) % int64(capacity))

	r.mu.Lock()
	playCursor := r.playCursor
	r.mu.Unlock()

	target := (playCursor + latencySamples*bytesPerSample) % capacity
	if target >= lockPoint {
		lengthBytes = target - lockPoint
	} else {
		lengthBytes = (capacity - lockPoint) + target
	}
	return lockPoint, lengthBytes
}

func (r *AudioRing) PlayCursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playCursor
}

func (r *AudioRing) WriteCursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeCursor
}

// Cursors returns play cursor, write cursor and total bytes consumed from
// one consistent read.
func (r *AudioRing) Cursors() (play, write int, consumed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playCursor, r.writeCursor, r.consumed
}
