//go:build !headless

// audio_backend_oto.go - Oto audio output pulling from the ring

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
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio: oto")
}

// Oto permits one context per process.
var (
	otoContextOnce sync.Once
	otoContext     *oto.Context
	otoContextSpec AudioSpec
	otoContextErr  error
)

type consumerHolder struct {
	consumer AudioConsumer
}

type OtoPlayer struct {
	player   *oto.Player
	consumer atomic.Pointer[consumerHolder] // Atomic for lock-free Read()
	started  bool
	mutex    sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer() AudioOutput {
	return &OtoPlayer{}
}

func otoFormat(f SampleFormat) (oto.Format, error) {
	switch f {
	case SampleFormatS16LE:
		return oto.FormatSignedInt16LE, nil
	case SampleFormatF32LE:
		return oto.FormatFloat32LE, nil
	case SampleFormatU8:
		return oto.FormatUnsignedInt8, nil
	}
	return 0, fmt.Errorf("unsupported sample format %v", f)
}

func (op *OtoPlayer) Open(spec AudioSpec, consumer AudioConsumer) (AudioSpec, error) {
	format, err := otoFormat(spec.Format)
	if err != nil {
		return AudioSpec{}, err
	}

	otoContextOnce.Do(func() {
		opts := &oto.NewContextOptions{
			SampleRate:   spec.SampleRate,
			ChannelCount: spec.Channels,
			Format:       format,
			BufferSize:   time.Duration(spec.FramesPerCallback) * time.Second / time.Duration(spec.SampleRate),
		}
		ctx, ready, err := oto.NewContext(opts)
		if err != nil {
			otoContextErr = err
			return
		}
		<-ready
		otoContext = ctx
		otoContextSpec = spec
	})
	if otoContextErr != nil {
		return AudioSpec{}, otoContextErr
	}

	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.consumer.Store(&consumerHolder{consumer: consumer})
	op.player = otoContext.NewPlayer(op)
	// Keep oto from reading far past the device period.
	op.player.SetBufferSize(spec.FramesPerCallback * spec.BytesPerFrame())
	return otoContextSpec, nil
}

// Read runs on oto's goroutine.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	holder := op.consumer.Load()
	if holder == nil || holder.consumer == nil {
		clear(p)
		return len(p), nil
	}
	n = holder.consumer.ConsumerRead(p)
	if n < len(p) {
		clear(p[n:])
	}
	return len(p), nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Close() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Pause()
		_ = op.player.Close()
		op.player = nil
	}
	op.consumer.Store(nil)
	op.started = false
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
