// config.go - YAML configuration and defaults

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
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Video       VideoConfig       `yaml:"video"`
	Audio       AudioConfig       `yaml:"audio"`
	Input       InputConfig       `yaml:"input"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

type VideoConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Scale       int    `yaml:"scale"`
	Title       string `yaml:"title"`
	Fullscreen  bool   `yaml:"fullscreen"`
	RefreshRate int    `yaml:"refresh_rate"`
	Pattern     string `yaml:"pattern"`
	AutoScroll  bool   `yaml:"auto_scroll"`
	Frames      int    `yaml:"frames"` // Stop after this many frames; 0 runs until quit
}

type AudioConfig struct {
	Backend           string `yaml:"backend"`
	SampleRate        int    `yaml:"sample_rate"`
	ToneHz            int    `yaml:"tone_hz"`
	Volume            int    `yaml:"volume"`
	Waveform          string `yaml:"waveform"`
	LatencySamples    int    `yaml:"latency_samples"` // 0 derives sample_rate/15
	FramesPerCallback int    `yaml:"frames_per_callback"`
	SafetyFrames      int    `yaml:"safety_frames"` // 0 uses frames_per_callback
}

type InputConfig struct {
	Speed    int `yaml:"speed"`
	ToneStep int `yaml:"tone_step"`
}

type DiagnosticsConfig struct {
	Timing      bool `yaml:"timing"`
	ReportEvery int  `yaml:"report_every"`
	Overlay     bool `yaml:"overlay"`
}

const (
	DEFAULT_WIDTH               = 640
	DEFAULT_HEIGHT              = 480
	DEFAULT_SAMPLE_RATE         = 48000
	DEFAULT_FRAMES_PER_CALLBACK = 1024
	DEFAULT_REFRESH_RATE        = 60
	LATENCY_DIVISOR             = 15 // Latency of 1/15 s of audio
	AUDIO_CHANNELS              = 2
)

func DefaultConfig() Config {
	return Config{
		Video: VideoConfig{
			Width:       DEFAULT_WIDTH,
			Height:      DEFAULT_HEIGHT,
			Scale:       1,
			Title:       "Handmade",
			RefreshRate: DEFAULT_REFRESH_RATE,
			Pattern:     "gradient",
			AutoScroll:  true,
		},
		Audio: AudioConfig{
			Backend:           "oto",
			SampleRate:        DEFAULT_SAMPLE_RATE,
			ToneHz:            DEFAULT_TONE_HZ,
			Volume:            DEFAULT_VOLUME,
			Waveform:          "square",
			FramesPerCallback: DEFAULT_FRAMES_PER_CALLBACK,
		},
		Input: InputConfig{
			Speed:    4,
			ToneStep: 2,
		},
		Diagnostics: DiagnosticsConfig{
			ReportEvery: 60,
			Overlay:     true,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// LatencySamplesOrDefault returns the configured latency, deriving 1/15 s of audio
// when unset.
func (c AudioConfig) LatencySamplesOrDefault() int {
	if c.LatencySamples > 0 {
		return c.LatencySamples
	}
	return c.SampleRate / LATENCY_DIVISOR
}

func (c AudioConfig) SafetyFramesOrDefault() int {
	if c.SafetyFrames > 0 {
		return c.SafetyFrames
	}
	return c.FramesPerCallback
}

func (c AudioConfig) Spec() AudioSpec {
	return AudioSpec{
		SampleRate:        c.SampleRate,
		Channels:          AUDIO_CHANNELS,
		Format:            SampleFormatS16LE,
		FramesPerCallback: c.FramesPerCallback,
	}
}

func (c VideoConfig) Display() DisplayConfig {
	return DisplayConfig{
		Width:       c.Width,
		Height:      c.Height,
		Scale:       c.Scale,
		Title:       c.Title,
		Resizable:   true,
		Fullscreen:  c.Fullscreen,
		RefreshRate: c.RefreshRate,
		VSync:       true,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		errs = append(errs, fmt.Errorf("video size %dx%d must be positive", c.Video.Width, c.Video.Height))
	}
	if c.Video.Scale < 1 {
		errs = append(errs, fmt.Errorf("video scale %d must be at least 1", c.Video.Scale))
	}
	if c.Video.RefreshRate <= 0 {
		errs = append(errs, fmt.Errorf("refresh rate %d must be positive", c.Video.RefreshRate))
	}
	if c.Video.Frames < 0 {
		errs = append(errs, fmt.Errorf("frame limit %d must not be negative", c.Video.Frames))
	}
	if _, err := patternFromName(c.Video.Pattern); err != nil {
		errs = append(errs, err)
	}
	if _, err := audioBackendFromName(c.Audio.Backend); err != nil {
		errs = append(errs, err)
	}
	if _, err := waveformFromName(c.Audio.Waveform); err != nil {
		errs = append(errs, err)
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate %d must be positive", c.Audio.SampleRate))
	} else {
		if latency := c.Audio.LatencySamplesOrDefault(); latency <= 0 || latency >= c.Audio.SampleRate {
			errs = append(errs, fmt.Errorf("latency %d samples must be within one second of audio", latency))
		}
		if safety := c.Audio.SafetyFramesOrDefault(); safety >= c.Audio.SampleRate {
			errs = append(errs, fmt.Errorf("safety latency %d frames must be within one second of audio", safety))
		}
	}
	if !toneInRange(c.Audio.ToneHz) {
		errs = append(errs, fmt.Errorf("tone %d Hz outside (%d, %d]", c.Audio.ToneHz, MIN_TONE_HZ, MAX_TONE_HZ))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > math.MaxInt16 {
		errs = append(errs, fmt.Errorf("volume %d outside [0, %d]", c.Audio.Volume, math.MaxInt16))
	}
	if c.Audio.FramesPerCallback <= 0 {
		errs = append(errs, fmt.Errorf("frames per callback %d must be positive", c.Audio.FramesPerCallback))
	}
	if c.Input.Speed < 0 || c.Input.ToneStep < 0 {
		errs = append(errs, fmt.Errorf("input speed %d and tone step %d must not be negative", c.Input.Speed, c.Input.ToneStep))
	}
	return errors.Join(errs...)
}
