package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "handmade.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadConfig_KeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, `
video:
  pattern: grid
audio:
  waveform: sine
  latency_samples: 1600
diagnostics:
  timing: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Video.Pattern != "grid" || cfg.Audio.Waveform != "sine" || !cfg.Diagnostics.Timing {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Video.Width != DEFAULT_WIDTH || cfg.Audio.SampleRate != DEFAULT_SAMPLE_RATE {
		t.Fatalf("defaults lost: %dx%d at %d", cfg.Video.Width, cfg.Video.Height, cfg.Audio.SampleRate)
	}
	if cfg.Audio.LatencySamplesOrDefault() != 1600 {
		t.Fatalf("expected latency 1600, got %d", cfg.Audio.LatencySamplesOrDefault())
	}
}

func TestLoadConfig_RejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "video: [unterminated\n")
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "parse yaml") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestAudioConfig_DerivedValues(t *testing.T) {
	cfg := DefaultConfig().Audio
	if cfg.LatencySamplesOrDefault() != 3200 {
		t.Fatalf("expected 48000/15 = 3200, got %d", cfg.LatencySamplesOrDefault())
	}
	if cfg.SafetyFramesOrDefault() != DEFAULT_FRAMES_PER_CALLBACK {
		t.Fatalf("expected safety to follow frames per callback, got %d", cfg.SafetyFramesOrDefault())
	}
	spec := cfg.Spec()
	if spec.BytesPerFrame() != 4 || spec.Format != SampleFormatS16LE {
		t.Fatalf("expected 2ch s16le, got %s", spec)
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Video.Width = 0
	cfg.Video.Pattern = "plasma"
	cfg.Audio.ToneHz = 1
	cfg.Audio.Volume = 40000
	cfg.Audio.Backend = "pulse"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"video size", "unknown pattern", "tone 1 Hz", "volume 40000", "unknown audio backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestConfig_ValidateLatencyWithinRing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Audio.LatencySamples = cfg.Audio.SampleRate
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for a full second of latency")
	}
}
