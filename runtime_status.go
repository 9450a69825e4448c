package main

import (
	"fmt"
	"sync"
	"time"
)

type runtimeStatusSnapshot struct {
	frames         uint64
	frameTime      time.Duration
	fps            float64
	samplesWritten int
	width          int
	height         int

	audioOn     bool
	audioSpec   AudioSpec
	toneHz      int
	playCursor  int
	writeCursor int
	consumed    uint64
}

type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func (s *runtimeStatusStore) setFrame(frames uint64, frameTime time.Duration, samplesWritten, width, height int) {
	s.mu.Lock()
	s.frames = frames
	s.frameTime = frameTime
	if frameTime > 0 {
		s.fps = float64(time.Second) / float64(frameTime)
	}
	s.samplesWritten = samplesWritten
	s.width = width
	s.height = height
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setAudio(on bool, spec AudioSpec) {
	s.mu.Lock()
	s.audioOn = on
	s.audioSpec = spec
	s.mu.Unlock()
}

func (s *runtimeStatusStore) setCursors(toneHz, play, write int, consumed uint64) {
	s.mu.Lock()
	s.toneHz = toneHz
	s.playCursor = play
	s.writeCursor = write
	s.consumed = consumed
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

// formatStatusLines renders the overlay text for one snapshot.
func formatStatusLines(s runtimeStatusSnapshot) (video, audio string) {
	video = fmt.Sprintf("%dx%d  frame %d  %.2fms/f  %.1ff/s",
		s.width, s.height, s.frames,
		float64(s.frameTime)/float64(time.Millisecond), s.fps)
	if !s.audioOn {
		return video, "off"
	}
	audio = fmt.Sprintf("%s  %d Hz  %d samples/f  play %d  write %d",
		s.audioSpec, s.toneHz, s.samplesWritten, s.playCursor, s.writeCursor)
	return video, audio
}
