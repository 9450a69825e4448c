// main.go - Entry point: flags, device setup and the frame loop

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
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147mHandmade\033[0m platform loop " + Version)
	fmt.Println("Scrolling gradient and a continuous tone, kept just ahead of the audio device.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("License: GPLv3 or later")
}

type options struct {
	configPath   string
	showFeatures bool
	cfg          Config
}

func parseFlags(args []string) (options, error) {
	var (
		opts  options
		flags = DefaultConfig()
	)

	flagSet := flag.NewFlagSet("handmade", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flagSet.BoolVar(&opts.showFeatures, "features", false, "Print compiled features and exit")
	flagSet.IntVar(&flags.Video.Width, "width", flags.Video.Width, "Window width in pixels")
	flagSet.IntVar(&flags.Video.Height, "height", flags.Video.Height, "Window height in pixels")
	flagSet.StringVar(&flags.Video.Pattern, "pattern", flags.Video.Pattern, "Pattern: gradient|grid")
	flagSet.IntVar(&flags.Video.Frames, "frames", flags.Video.Frames, "Stop after N frames (0 = until quit)")
	flagSet.StringVar(&flags.Audio.Backend, "audio", flags.Audio.Backend, "Audio backend: oto|alsa|none")
	flagSet.IntVar(&flags.Audio.SampleRate, "rate", flags.Audio.SampleRate, "Sample rate in Hz")
	flagSet.IntVar(&flags.Audio.ToneHz, "tone", flags.Audio.ToneHz, "Tone frequency in Hz")
	flagSet.IntVar(&flags.Audio.Volume, "volume", flags.Audio.Volume, "Tone amplitude (0-32767)")
	flagSet.IntVar(&flags.Audio.LatencySamples, "latency", flags.Audio.LatencySamples, "Samples kept ahead of the play cursor (0 = rate/15)")
	flagSet.StringVar(&flags.Audio.Waveform, "waveform", flags.Audio.Waveform, "Waveform: square|sine")
	flagSet.BoolVar(&flags.Diagnostics.Timing, "timing", flags.Diagnostics.Timing, "Print frame timing")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./handmade [-config handmade.yaml] [-width 640] [-height 480] [-tone 256] [-audio oto|alsa|none]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}

	opts.cfg = DefaultConfig()
	if opts.configPath != "" {
		cfg, err := LoadConfig(opts.configPath)
		if err != nil {
			return opts, &InitError{Subsystem: "config", Details: opts.configPath, Err: err}
		}
		opts.cfg = cfg
	}

	// Explicit flags win over the file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			opts.cfg.Video.Width = flags.Video.Width
		case "height":
			opts.cfg.Video.Height = flags.Video.Height
		case "pattern":
			opts.cfg.Video.Pattern = flags.Video.Pattern
		case "frames":
			opts.cfg.Video.Frames = flags.Video.Frames
		case "audio":
			opts.cfg.Audio.Backend = flags.Audio.Backend
		case "rate":
			opts.cfg.Audio.SampleRate = flags.Audio.SampleRate
		case "tone":
			opts.cfg.Audio.ToneHz = flags.Audio.ToneHz
		case "volume":
			opts.cfg.Audio.Volume = flags.Audio.Volume
		case "latency":
			opts.cfg.Audio.LatencySamples = flags.Audio.LatencySamples
		case "waveform":
			opts.cfg.Audio.Waveform = flags.Audio.Waveform
		case "timing":
			opts.cfg.Diagnostics.Timing = flags.Diagnostics.Timing
		}
	})

	if err := opts.cfg.Validate(); err != nil {
		return opts, &InitError{Subsystem: "config", Details: "invalid configuration", Err: err}
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if opts.showFeatures {
		printFeatures()
		return
	}

	boilerPlate()
	if err := run(opts.cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

// run acquires video, surface, ring and audio device in that order and
// hands them to the frame loop, which releases them in reverse.
func run(cfg Config) error {
	pattern, _ := patternFromName(cfg.Video.Pattern)
	waveform, _ := waveformFromName(cfg.Audio.Waveform)
	backend, _ := audioBackendFromName(cfg.Audio.Backend)

	video, input, err := newPlatform(cfg.Video.Display(), cfg.Video.Frames)
	if err != nil {
		return &InitError{Subsystem: "video", Details: "create window", Err: err}
	}
	defer video.Close()

	spec := cfg.Audio.Spec()
	synth, err := NewToneSynthesizer(spec.SampleRate, spec.Channels, cfg.Audio.ToneHz, int16(cfg.Audio.Volume), waveform)
	if err != nil {
		return &InitError{Subsystem: "audio", Details: "tone synthesizer", Err: err}
	}

	surface := NewPixelSurface(video, heapAllocator{})
	if err := surface.Resize(cfg.Video.Width, cfg.Video.Height); err != nil {
		return err
	}

	loop := NewFrameLoop(input, surface, pattern, synth, FrameLoopConfig{
		LatencySamples: cfg.Audio.LatencySamplesOrDefault(),
		Speed:          cfg.Input.Speed,
		ToneStep:       cfg.Input.ToneStep,
		AutoScroll:     cfg.Video.AutoScroll,
		ReportTiming:   cfg.Diagnostics.Timing,
		ReportEvery:    cfg.Diagnostics.ReportEvery,
	})
	if sd, ok := video.(statusDisplay); ok && cfg.Diagnostics.Overlay {
		sd.SetStatusSource(loop.Status())
	}

	if backend != AUDIO_BACKEND_NONE {
		if err := setupAudio(loop, backend, spec, cfg.Audio.SafetyFramesOrDefault()); err != nil {
			_ = surface.Release()
			return err
		}
	} else {
		fmt.Println("audio: disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("video: %dx%d %s pattern, audio: %s %s %d Hz, latency %d samples\n",
		cfg.Video.Width, cfg.Video.Height, cfg.Video.Pattern,
		spec, synth.Waveform(), synth.ToneHz(), cfg.Audio.LatencySamplesOrDefault())
	if err := loop.Run(ctx, video); err != nil {
		return err
	}
	fmt.Printf("stopped after %d frames\n", loop.Frames())
	return nil
}

// setupAudio opens the device and attaches it to the loop. A format
// mismatch is logged and leaves the loop running video-only.
func setupAudio(loop *FrameLoop, backend int, spec AudioSpec, safetyFrames int) error {
	out, err := NewAudioOutput(backend)
	if err != nil {
		return err
	}
	ring, err := openAudio(out, spec, safetyFrames)
	if err != nil {
		var mismatch *FormatMismatchWarning
		if errors.As(err, &mismatch) {
			fmt.Fprintf(os.Stderr, "audio: %v; continuing without sound\n", mismatch)
			loop.AttachAudio(nil, nil, mismatch.Granted)
			return nil
		}
		return err
	}
	loop.AttachAudio(ring, out, spec)
	return nil
}

// statusDisplay is implemented by video backends that can draw the
// diagnostics overlay.
type statusDisplay interface {
	SetStatusSource(status *runtimeStatusStore)
}
