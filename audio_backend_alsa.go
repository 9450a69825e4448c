//go:build linux && alsa && !headless

// audio_backend_alsa.go - ALSA audio output pulling from the ring

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

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle = NULL;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

// setupPCM negotiates interleaved S16_LE and writes back the granted rate
// and period.
static int setupPCM(snd_pcm_t* handle, unsigned int* rate, unsigned int channels, snd_pcm_uframes_t* period) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_S16_LE);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate_near(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_period_size_near(handle, params, period, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, void* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drop(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio: alsa")
}

// ALSAPlayer pulls one period at a time from the consumer and blocks in
// snd_pcm_writei, so the writer goroutine is the device's callback context.
type ALSAPlayer struct {
	handle   *C.snd_pcm_t
	spec     AudioSpec
	consumer AudioConsumer
	started  bool
	mutex    sync.Mutex
	stop     chan struct{}
	done     chan struct{}
}

func newALSAOutput() (AudioOutput, error) {
	return &ALSAPlayer{}, nil
}

func (ap *ALSAPlayer) Open(spec AudioSpec, consumer AudioConsumer) (AudioSpec, error) {
	if spec.Format != SampleFormatS16LE {
		return AudioSpec{}, fmt.Errorf("alsa: unsupported sample format %v", spec.Format)
	}

	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	var err C.int
	handle := C.openPCM(device, &err)
	if err < 0 {
		return AudioSpec{}, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(err)))
	}

	rate := C.uint(spec.SampleRate)
	period := C.snd_pcm_uframes_t(spec.FramesPerCallback)
	if err = C.setupPCM(handle, &rate, C.uint(spec.Channels), &period); err < 0 {
		C.closePCM(handle)
		return AudioSpec{}, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(err)))
	}

	granted := spec
	granted.SampleRate = int(rate)
	granted.FramesPerCallback = int(period)

	ap.mutex.Lock()
	ap.handle = handle
	ap.spec = granted
	ap.consumer = consumer
	ap.mutex.Unlock()
	return granted, nil
}

func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.started || ap.handle == nil {
		return
	}
	ap.started = true
	ap.stop = make(chan struct{})
	ap.done = make(chan struct{})

	handle, consumer, stop, done := ap.handle, ap.consumer, ap.stop, ap.done
	frames := max(ap.spec.FramesPerCallback, 1)
	buf := make([]byte, frames*ap.spec.BytesPerFrame())
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			consumer.ConsumerRead(buf)
			n := C.writePCM(handle, unsafe.Pointer(&buf[0]), C.int(frames))
			if n == -C.EPIPE {
				C.snd_pcm_prepare(handle)
				continue
			}
			if n < 0 {
				return
			}
		}
	}()
}

func (ap *ALSAPlayer) Close() {
	ap.mutex.Lock()
	stop, done, handle := ap.stop, ap.done, ap.handle
	ap.started = false
	ap.stop, ap.done, ap.handle = nil, nil, nil
	ap.mutex.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	if handle != nil {
		C.closePCM(handle)
	}
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}
