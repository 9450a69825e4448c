// tone_synth.go - Phase-accumulated tone generator

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
	"encoding/binary"
	"fmt"
	"math"
)

const (
	MIN_TONE_HZ = 1    // Exclusive lower bound
	MAX_TONE_HZ = 4000 // Inclusive upper bound

	DEFAULT_TONE_HZ = 256
	DEFAULT_VOLUME  = 3000

	BYTES_PER_CHANNEL_SAMPLE = 2 // Signed 16-bit little-endian
)

type Waveform int

const (
	WaveformSquare Waveform = iota
	WaveformSine
)

func (w Waveform) String() string {
	if w == WaveformSine {
		return "sine"
	}
	return "square"
}

func waveformFromName(name string) (Waveform, error) {
	switch name {
	case "", "square":
		return WaveformSquare, nil
	case "sine":
		return WaveformSine, nil
	}
	return 0, fmt.Errorf("unknown waveform: %q", name)
}

// ToneSynthesizer produces one running tone. Its sample index and phase
// persist across frames and only advance for samples actually written.
type ToneSynthesizer struct {
	samplesPerSecond   int
	toneHz             int
	wavePeriodSamples  int
	runningSampleIndex int64
	phase              float64 // Radians, kept in [0, 2π)
	volume             int16
	channels           int
	waveform           Waveform
}

func NewToneSynthesizer(samplesPerSecond, channels, toneHz int, volume int16, waveform Waveform) (*ToneSynthesizer, error) {
	if samplesPerSecond <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", samplesPerSecond)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}
	if !toneInRange(toneHz) {
		return nil, fmt.Errorf("tone %d Hz outside (%d, %d]", toneHz, MIN_TONE_HZ, MAX_TONE_HZ)
	}
	return &ToneSynthesizer{
		samplesPerSecond:  samplesPerSecond,
		toneHz:            toneHz,
		wavePeriodSamples: wavePeriod(samplesPerSecond, toneHz),
		volume:            volume,
		channels:          channels,
		waveform:          waveform,
	}, nil
}

func toneInRange(hz int) bool {
	return hz > MIN_TONE_HZ && hz <= MAX_TONE_HZ
}

func wavePeriod(samplesPerSecond, hz int) int {
	return max(samplesPerSecond/hz, 1)
}

// SetFrequency retunes the tone. Requests outside (1, 4000] Hz are ignored
// and report false.
func (s *ToneSynthesizer) SetFrequency(hz int) bool {
	if !toneInRange(hz) {
		return false
	}
	s.toneHz = hz
	s.wavePeriodSamples = wavePeriod(s.samplesPerSecond, hz)
	return true
}

// NextSample returns the next sample value and advances the stream by one.
func (s *ToneSynthesizer) NextSample() int16 {
	var v int16
	switch s.waveform {
	case WaveformSine:
		v = int16(math.Round(math.Sin(s.phase) * float64(s.volume)))
		s.phase += 2 * math.Pi / float64(s.wavePeriodSamples)
		if s.phase >= 2*math.Pi {
			s.phase = math.Mod(s.phase, 2*math.Pi)
		}
	default:
		halfPeriod := max(s.wavePeriodSamples/2, 1)
		if (s.runningSampleIndex/int64(halfPeriod))%2 == 0 {
			v = s.volume
		} else {
			v = -s.volume
		}
	}
	s.runningSampleIndex++
	return v
}

// FillRegion writes whole interleaved frames into region, the same value on
// every channel, and returns the number of frames written. A trailing
// partial frame is left untouched.
func (s *ToneSynthesizer) FillRegion(region []byte) int {
	frameBytes := s.FrameBytes()
	frames := len(region) / frameBytes
	for i := range frames {
		v := uint16(s.NextSample())
		frame := region[i*frameBytes : (i+1)*frameBytes]
		for ch := range s.channels {
			binary.LittleEndian.PutUint16(frame[ch*BYTES_PER_CHANNEL_SAMPLE:], v)
		}
	}
	return frames
}

func (s *ToneSynthesizer) FrameBytes() int { return s.channels * BYTES_PER_CHANNEL_SAMPLE }

func (s *ToneSynthesizer) ToneHz() int { return s.toneHz }

func (s *ToneSynthesizer) WavePeriodSamples() int { return s.wavePeriodSamples }

func (s *ToneSynthesizer) RunningSampleIndex() int64 { return s.runningSampleIndex }

func (s *ToneSynthesizer) Volume() int16 { return s.volume }

func (s *ToneSynthesizer) Waveform() Waveform { return s.waveform }
