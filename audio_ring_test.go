package main

import (
	"errors"
	"sync"
	"testing"
)

// countingSource writes an incrementing byte per frame so ordering across
// a wrap is visible.
type countingSource struct {
	frameBytes int
	next       byte
	regions    []int
}

func (s *countingSource) FillRegion(region []byte) int {
	s.regions = append(s.regions, len(region))
	frames := len(region) / s.frameBytes
	for i := range frames {
		for b := range s.frameBytes {
			region[i*s.frameBytes+b] = s.next
		}
		s.next++
	}
	return frames
}

func newTestRing(t *testing.T, capacity, frameBytes, safety int) *AudioRing {
	t.Helper()
	ring, err := NewAudioRing(capacity, frameBytes, safety)
	if err != nil {
		t.Fatalf("NewAudioRing: %v", err)
	}
	return ring
}

func TestAudioRing_RejectsPartialFrameCapacity(t *testing.T) {
	_, err := NewAudioRing(10, 4, 0)
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected InitError, got %v", err)
	}
	if initErr.Subsystem != "audio" {
		t.Fatalf("expected audio subsystem, got %q", initErr.Subsystem)
	}
}

func TestAudioRing_RejectsSafetyBeyondCapacity(t *testing.T) {
	if _, err := NewAudioRing(64, 4, 64); err == nil {
		t.Fatal("expected error for safety latency equal to capacity")
	}
}

func TestAudioRing_WriteWindowSplitsAtWrap(t *testing.T) {
	ring := newTestRing(t, 1000, 4, 0)
	src := &countingSource{frameBytes: 4}

	if err := ring.WriteWindow(900, 200, src); err != nil {
		t.Fatalf("WriteWindow: %v", err)
	}
	if len(src.regions) != 2 || src.regions[0] != 100 || src.regions[1] != 100 {
		t.Fatalf("expected regions [100 100], got %v", src.regions)
	}
	// Frame 24 is the last of the first region, frame 25 starts at offset 0.
	if ring.data[996] != 24 || ring.data[0] != 25 || ring.data[96] != 49 {
		t.Fatalf("stream not continuous across wrap: data[996]=%d data[0]=%d data[96]=%d",
			ring.data[996], ring.data[0], ring.data[96])
	}
}

func TestAudioRing_WriteWindowSingleRegion(t *testing.T) {
	ring := newTestRing(t, 1000, 4, 0)
	src := &countingSource{frameBytes: 4}
	if err := ring.WriteWindow(100, 200, src); err != nil {
		t.Fatalf("WriteWindow: %v", err)
	}
	if len(src.regions) != 1 || src.regions[0] != 200 {
		t.Fatalf("expected one region of 200, got %v", src.regions)
	}
}

func TestAudioRing_RegionLengthsProperty(t *testing.T) {
	ring := newTestRing(t, 1000, 4, 0)
	for lock := 0; lock < 1000; lock += 4 {
		for length := 0; length <= 1000; length += 36 {
			first, second := ring.regions(lock, length)
			if len(first)+len(second) != length {
				t.Fatalf("lock %d length %d: regions sum to %d", lock, length, len(first)+len(second))
			}
			wantSecond := max(0, lock+length-1000)
			if len(second) != wantSecond {
				t.Fatalf("lock %d length %d: expected second region %d, got %d", lock, length, wantSecond, len(second))
			}
		}
	}
}

func TestAudioRing_ZeroLengthWriteIsNoOp(t *testing.T) {
	ring := newTestRing(t, 64, 4, 0)
	src := &countingSource{frameBytes: 4}
	if err := ring.WriteWindow(8, 0, src); err != nil {
		t.Fatalf("WriteWindow: %v", err)
	}
	if len(src.regions) != 0 {
		t.Fatalf("expected no fill calls, got %v", src.regions)
	}
}

func TestAudioRing_WriteWindowValidation(t *testing.T) {
	ring := newTestRing(t, 64, 4, 0)
	src := &countingSource{frameBytes: 4}
	cases := []struct {
		name       string
		lock, size int
		want       error
	}{
		{"negative lock", -4, 8, ErrWindowOutOfRange},
		{"lock at capacity", 64, 8, ErrWindowOutOfRange},
		{"length beyond capacity", 0, 68, ErrWindowOutOfRange},
		{"misaligned lock", 2, 8, ErrMisalignedWindow},
		{"misaligned length", 4, 6, ErrMisalignedWindow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ring.WriteWindow(tc.lock, tc.size, src)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(src.regions) != 0 {
		t.Fatalf("rejected windows must not write, got %v", src.regions)
	}
}

func TestAudioRing_ConsumerReadWrapsAndAdvances(t *testing.T) {
	ring := newTestRing(t, 16, 4, 4)
	for i := range ring.data {
		ring.data[i] = byte(i)
	}
	ring.playCursor = 12

	dst := make([]byte, 8)
	if n := ring.ConsumerRead(dst); n != 8 {
		t.Fatalf("expected 8 bytes, got %d", n)
	}
	want := []byte{12, 13, 14, 15, 0, 1, 2, 3}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, want[i], dst[i])
		}
	}
	play, write, consumed := ring.Cursors()
	if play != 4 || write != 8 || consumed != 8 {
		t.Fatalf("expected play 4 write 8 consumed 8, got %d %d %d", play, write, consumed)
	}
}

func TestAudioRing_PlayCursorIsCumulativeModCapacity(t *testing.T) {
	ring := newTestRing(t, 48000*4, 4, 0)
	dst := make([]byte, 4096)
	total := 0
	for range 100 {
		total += ring.ConsumerRead(dst)
	}
	if ring.PlayCursor() != total%ring.Capacity() {
		t.Fatalf("expected play cursor %d, got %d", total%ring.Capacity(), ring.PlayCursor())
	}
}

func TestAudioRing_ComputeFillWindow(t *testing.T) {
	ring := newTestRing(t, 1000, 4, 0)

	lock, length := ring.ComputeFillWindow(0, 4, 100)
	if lock != 0 || length != 400 {
		t.Fatalf("expected (0, 400), got (%d, %d)", lock, length)
	}

	// Producer ahead of play and target wrapped past the end.
	ring.playCursor = 800
	lock, length = ring.ComputeFillWindow(225, 4, 100)
	if lock != 900 || length != 300 {
		t.Fatalf("expected (900, 300), got (%d, %d)", lock, length)
	}
}

func TestAudioRing_ComputeFillWindowIsIdempotent(t *testing.T) {
	ring := newTestRing(t, 1000, 4, 0)
	ring.playCursor = 240
	l1, n1 := ring.ComputeFillWindow(70, 4, 50)
	l2, n2 := ring.ComputeFillWindow(70, 4, 50)
	if l1 != l2 || n1 != n2 {
		t.Fatalf("expected identical windows, got (%d,%d) and (%d,%d)", l1, n1, l2, n2)
	}
}

func TestAudioRing_ProducerStaysAheadOfConsumer(t *testing.T) {
	const (
		frameBytes = 4
		latency    = 64
		period     = 32
	)
	ring := newTestRing(t, 512*frameBytes, frameBytes, 0)
	src := &countingSource{frameBytes: frameBytes}
	var written int64
	dst := make([]byte, period*frameBytes)

	for frame := range 200 {
		lock, length := ring.ComputeFillWindow(written, frameBytes, latency)
		if err := ring.WriteWindow(lock, length, src); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		written += int64(length / frameBytes)

		_, _, consumed := ring.Cursors()
		ahead := written - int64(consumed)/frameBytes
		if ahead != latency {
			t.Fatalf("frame %d: expected %d samples ahead, got %d", frame, latency, ahead)
		}
		ring.ConsumerRead(dst)
		// Every frame read must be the next value of the stream.
		want := byte(int64(consumed) / frameBytes)
		if dst[0] != want {
			t.Fatalf("frame %d: expected sample %d at play cursor, got %d", frame, want, dst[0])
		}
	}
}

func TestAudioRing_CursorRace(t *testing.T) {
	ring := newTestRing(t, 48000*4, 4, 1024*4)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Go(func() {
		dst := make([]byte, 1024*4)
		for {
			select {
			case <-stop:
				return
			default:
				ring.ConsumerRead(dst)
			}
		}
	})

	var index int64
	for range 10000 {
		lock, length := ring.ComputeFillWindow(index, 4, 3200)
		if lock < 0 || lock >= ring.Capacity() || length < 0 || length >= ring.Capacity() {
			t.Fatalf("window (%d, %d) outside ring", lock, length)
		}
		play, write, _ := ring.Cursors()
		if write != (play+1024*4)%ring.Capacity() {
			t.Fatalf("write cursor %d does not trail play %d by safety", write, play)
		}
		index += 7
	}
	close(stop)
	wg.Wait()
}
