package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeVideo records every call the pixel surface and frame loop make.
type fakeVideo struct {
	mu         sync.Mutex
	calls      []string
	targets    map[TargetHandle][2]int
	nextHandle TargetHandle
	blits      int
	presents   int
	lastPitch  int
	lastPixels []byte
	createErr  error
	maxTicks   int
}

func newFakeVideo() *fakeVideo {
	return &fakeVideo{targets: make(map[TargetHandle][2]int), maxTicks: 1000}
}

func (v *fakeVideo) record(format string, args ...any) {
	v.calls = append(v.calls, fmt.Sprintf(format, args...))
}

func (v *fakeVideo) CreateTarget(width, height int) (TargetHandle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.createErr != nil {
		return noTarget, v.createErr
	}
	v.nextHandle++
	v.targets[v.nextHandle] = [2]int{width, height}
	v.record("create %d %dx%d", v.nextHandle, width, height)
	return v.nextHandle, nil
}

func (v *fakeVideo) DestroyTarget(handle TargetHandle) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.targets[handle]; !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	delete(v.targets, handle)
	v.record("destroy %d", handle)
	return nil
}

func (v *fakeVideo) Blit(handle TargetHandle, pixels []byte, pitch int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.targets[handle]; !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	v.blits++
	v.lastPitch = pitch
	v.lastPixels = append(v.lastPixels[:0], pixels...)
	return nil
}

func (v *fakeVideo) Present(handle TargetHandle) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.targets[handle]; !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	v.presents++
	return nil
}

func (v *fakeVideo) Run(ctx context.Context, tick func() error) error {
	for range v.maxTicks {
		if err := tick(); err != nil {
			if errors.Is(err, errLoopStopped) {
				return nil
			}
			return err
		}
	}
	return errors.New("tick limit reached")
}

func (v *fakeVideo) Close() error { return nil }

func (v *fakeVideo) GetFrameCount() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return uint64(v.presents)
}

func (v *fakeVideo) GetRefreshRate() int { return DEFAULT_REFRESH_RATE }

func (v *fakeVideo) liveTargets() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.targets)
}

// trackingAllocator counts live pixel buffers by size.
type trackingAllocator struct {
	live    map[*byte]int
	allocs  []int
	frees   []int
	failAt  int // fail the Nth allocation (1-based); 0 never fails
	onFree  func()
	onAlloc func()
}

func newTrackingAllocator() *trackingAllocator {
	return &trackingAllocator{live: make(map[*byte]int)}
}

func (a *trackingAllocator) Alloc(size int) ([]byte, error) {
	if a.failAt > 0 && len(a.allocs)+1 == a.failAt {
		a.allocs = append(a.allocs, -size)
		return nil, errors.New("out of memory")
	}
	buf := make([]byte, size)
	a.live[&buf[0]] = size
	a.allocs = append(a.allocs, size)
	if a.onAlloc != nil {
		a.onAlloc()
	}
	return buf, nil
}

func (a *trackingAllocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	delete(a.live, &buf[0])
	a.frees = append(a.frees, len(buf))
	if a.onFree != nil {
		a.onFree()
	}
}

func (a *trackingAllocator) liveBytes() int {
	total := 0
	for _, n := range a.live {
		total += n
	}
	return total
}

// scriptedInput replays one batch of events and one key set per frame.
type scriptedInput struct {
	frames [][]Event
	keys   []KeySet
	frame  int
	queue  []Event
}

func (in *scriptedInput) PollEvent() (Event, bool) {
	if in.queue == nil && in.frame < len(in.frames) {
		in.queue = append([]Event{}, in.frames[in.frame]...)
	}
	if len(in.queue) == 0 {
		in.queue = nil
		return Event{}, false
	}
	ev := in.queue[0]
	in.queue = in.queue[1:]
	return ev, true
}

func (in *scriptedInput) KeyState() KeySet {
	var keys KeySet
	if in.frame < len(in.keys) {
		keys = in.keys[in.frame]
	}
	in.frame++
	return keys
}

// fakeAudio grants a fixed spec and records lifecycle calls.
type fakeAudio struct {
	mu       sync.Mutex
	grant    func(AudioSpec) AudioSpec
	openErr  error
	consumer AudioConsumer
	started  bool
	closed   int
	calls    *[]string
}

func (a *fakeAudio) Open(spec AudioSpec, consumer AudioConsumer) (AudioSpec, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.openErr != nil {
		return AudioSpec{}, a.openErr
	}
	a.consumer = consumer
	if a.grant != nil {
		return a.grant(spec), nil
	}
	return spec, nil
}

func (a *fakeAudio) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = true
}

func (a *fakeAudio) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = false
	a.closed++
	if a.calls != nil {
		*a.calls = append(*a.calls, "audio close")
	}
}

func (a *fakeAudio) IsStarted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started
}
