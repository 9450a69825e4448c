//go:build headless

// audio_backend_headless.go - Simulated audio device for headless builds

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
	"sync"
	"time"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio: simulated")
}

// OtoPlayer stands in for the device in headless builds: a goroutine pulls
// one period from the consumer every FramesPerCallback/SampleRate seconds.
type OtoPlayer struct {
	mutex    sync.Mutex
	spec     AudioSpec
	consumer AudioConsumer
	started  bool
	stop     chan struct{}
	done     chan struct{}
}

func NewOtoPlayer() AudioOutput {
	return &OtoPlayer{}
}

func (op *OtoPlayer) Open(spec AudioSpec, consumer AudioConsumer) (AudioSpec, error) {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	op.spec = spec
	op.consumer = consumer
	return spec, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.started || op.consumer == nil || op.spec.SampleRate <= 0 {
		return
	}
	op.started = true
	op.stop = make(chan struct{})
	op.done = make(chan struct{})

	frames := max(op.spec.FramesPerCallback, 1)
	period := time.Duration(frames) * time.Second / time.Duration(op.spec.SampleRate)
	buf := make([]byte, frames*op.spec.BytesPerFrame())
	consumer, stop, done := op.consumer, op.stop, op.done
	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				consumer.ConsumerRead(buf)
			}
		}
	}()
}

func (op *OtoPlayer) Close() {
	op.mutex.Lock()
	stop, done := op.stop, op.done
	op.started = false
	op.stop, op.done = nil, nil
	op.consumer = nil
	op.mutex.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
