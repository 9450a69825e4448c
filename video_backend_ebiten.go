//go:build !headless

// video_backend_ebiten.go - Ebiten window, targets and keyboard input

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
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "video: ebiten")
}

type ebitenTarget struct {
	width  int
	height int
}

type EbitenOutput struct {
	bufferMutex sync.RWMutex
	config      DisplayConfig
	targets     map[TargetHandle]ebitenTarget
	nextHandle  TargetHandle
	current     TargetHandle
	width       int
	height      int
	frameBuffer []byte // RGBA copy of the last blit
	window      *ebiten.Image
	fullscreen  bool
	windowedW   int
	windowedH   int
	outsideW    int
	outsideH    int

	queue      *eventQueue
	status     *runtimeStatusStore
	frameCount atomic.Uint64
	presented  atomic.Uint64
	frameLimit uint64

	ctx  context.Context
	tick func() error

	clipboardOnce sync.Once
	clipboardOK   bool
	showStatusBar bool
}

func newPlatform(display DisplayConfig, frameLimit int) (VideoOutput, InputSource, error) {
	eo, err := NewEbitenOutput(display, frameLimit)
	if err != nil {
		return nil, nil, err
	}
	return eo, eo.queue, nil
}

func NewEbitenOutput(display DisplayConfig, frameLimit int) (*EbitenOutput, error) {
	if display.Width <= 0 || display.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", display.Width, display.Height)
	}
	scale := max(display.Scale, 1)
	return &EbitenOutput{
		config:        display,
		targets:       make(map[TargetHandle]ebitenTarget),
		width:         display.Width,
		height:        display.Height,
		fullscreen:    display.Fullscreen,
		windowedW:     display.Width * scale,
		windowedH:     display.Height * scale,
		queue:         &eventQueue{},
		frameLimit:    uint64(max(frameLimit, 0)),
		showStatusBar: true,
	}, nil
}

func (eo *EbitenOutput) SetStatusSource(status *runtimeStatusStore) {
	eo.bufferMutex.Lock()
	eo.status = status
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) CreateTarget(width, height int) (TargetHandle, error) {
	if width <= 0 || height <= 0 {
		return noTarget, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	eo.nextHandle++
	handle := eo.nextHandle
	eo.targets[handle] = ebitenTarget{width: width, height: height}
	eo.current = handle
	eo.width = width
	eo.height = height
	eo.frameBuffer = make([]byte, width*height*BYTES_PER_PIXEL)
	return handle, nil
}

func (eo *EbitenOutput) DestroyTarget(handle TargetHandle) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	if _, ok := eo.targets[handle]; !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	delete(eo.targets, handle)
	if eo.current == handle {
		eo.current = noTarget
	}
	return nil
}

func (eo *EbitenOutput) Blit(handle TargetHandle, pixels []byte, pitch int) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	target, ok := eo.targets[handle]
	if !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	if pitch < target.width*BYTES_PER_PIXEL || len(pixels) < pitch*target.height {
		return fmt.Errorf("blit of %d bytes with pitch %d does not cover %dx%d", len(pixels), pitch, target.width, target.height)
	}
	packedToRGBA(eo.frameBuffer, pixels, target.width, target.height, pitch)
	return nil
}

func (eo *EbitenOutput) Present(handle TargetHandle) error {
	eo.bufferMutex.RLock()
	_, ok := eo.targets[handle]
	eo.bufferMutex.RUnlock()
	if !ok {
		return fmt.Errorf("unknown target %d", handle)
	}
	if n := eo.presented.Add(1); eo.frameLimit > 0 && n >= eo.frameLimit {
		eo.queue.Push(Event{Type: EventQuit})
	}
	return nil
}

// Run owns the calling goroutine until the window closes or tick stops.
func (eo *EbitenOutput) Run(ctx context.Context, tick func() error) error {
	eo.ctx = ctx
	eo.tick = tick

	ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	ebiten.SetWindowTitle(eo.config.Title)
	if eo.config.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(eo.config.VSync)
	ebiten.SetWindowClosingHandled(true)
	if eo.config.RefreshRate > 0 {
		ebiten.SetTPS(eo.config.RefreshRate)
	}
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	if err := ebiten.RunGame(eo); err != nil {
		return err
	}
	return nil
}

func (eo *EbitenOutput) Close() error {
	eo.bufferMutex.Lock()
	if eo.window != nil {
		eo.window.Deallocate()
		eo.window = nil
	}
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return eo.frameCount.Load()
}

func (eo *EbitenOutput) GetRefreshRate() int {
	if eo.config.RefreshRate == 0 {
		return DEFAULT_REFRESH_RATE
	}
	return eo.config.RefreshRate
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || (eo.ctx != nil && eo.ctx.Err() != nil) {
		eo.queue.Push(Event{Type: EventQuit})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}
	eo.handleKeyboardInput()

	if eo.tick == nil {
		return nil
	}
	err := eo.tick()
	if errors.Is(err, errLoopStopped) {
		return ebiten.Termination
	}
	return err
}

func (eo *EbitenOutput) handleKeyboardInput() {
	eo.queue.SetKeys(keySetFromPressed(ebiten.IsKeyPressed))
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		eo.queue.Push(Event{Type: EventKey, Key: KeyEscape, Down: true})
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	// Ctrl+Shift+V sets the tone from a number on the clipboard.
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		eo.handleClipboardPaste()
	}
}

var ebitenKeyMap = []struct {
	keys []ebiten.Key
	key  Key
}{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, KeyUp},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, KeyDown},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, KeyLeft},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, KeyRight},
	{[]ebiten.Key{ebiten.KeyEscape}, KeyEscape},
}

func keySetFromPressed(pressed func(ebiten.Key) bool) KeySet {
	var keys KeySet
	for _, m := range ebitenKeyMap {
		for _, k := range m.keys {
			if pressed(k) {
				keys = keys.With(m.key)
				break
			}
		}
	}
	return keys
}

func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}

// parseToneText accepts "440" or "440 Hz" on the first line of pasted text.
func parseToneText(raw []byte) (int, bool) {
	line, _, _ := strings.Cut(string(capPasteText(normalizePasteText(raw), 64)), "\n")
	line = strings.TrimSpace(strings.ToLower(line))
	line = strings.TrimSpace(strings.TrimSuffix(line, "hz"))
	hz, err := strconv.Atoi(line)
	if err != nil {
		return 0, false
	}
	return hz, true
}

func (eo *EbitenOutput) handleClipboardPaste() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if hz, ok := parseToneText(data); ok {
		eo.queue.Push(Event{Type: EventTone, ToneHz: hz})
	}
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.bufferMutex.Lock()
	if eo.window != nil {
		if b := eo.window.Bounds(); b.Dx() != eo.width || b.Dy() != eo.height {
			eo.window.Deallocate()
			eo.window = nil
		}
	}
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}
	if eo.current != noTarget && len(eo.frameBuffer) == eo.width*eo.height*BYTES_PER_PIXEL {
		eo.window.WritePixels(eo.frameBuffer)
	}
	showStatusBar := eo.showStatusBar
	status := eo.status
	width, height := eo.width, eo.height
	eo.bufferMutex.Unlock()

	screen.DrawImage(eo.window, nil)
	if showStatusBar && status != nil {
		drawRuntimeStatusBar(screen, width, height, status.snapshot())
	}
	eo.frameCount.Add(1)
}

// Layout reports a resize when the window's client area changes and keeps
// the logical screen the size of the current target.
func (eo *EbitenOutput) Layout(outsideWidth, outsideHeight int) (int, int) {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	if eo.outsideW != 0 && (outsideWidth != eo.outsideW || outsideHeight != eo.outsideH) {
		scale := max(eo.config.Scale, 1)
		w, h := outsideWidth/scale, outsideHeight/scale
		if w > 0 && h > 0 {
			eo.queue.Push(Event{Type: EventResize, Width: w, Height: h})
		}
	}
	eo.outsideW, eo.outsideH = outsideWidth, outsideHeight
	return eo.width, eo.height
}

type statusToken struct {
	name    string
	enabled bool
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func drawRuntimeStatusBar(screen *ebiten.Image, width, height int, s runtimeStatusSnapshot) {
	barHeight := 44
	if barHeight >= height {
		return
	}
	y := height - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(width), float64(barHeight), color.RGBA{0, 0, 0, 180})

	video, audio := formatStatusLines(s)
	drawStatusLine(screen, 6, y+13, "VIDEO", []statusToken{{name: video, enabled: true}})
	drawStatusLine(screen, 6, y+26, "AUDIO", []statusToken{{name: audio, enabled: s.audioOn}})

	legendColor := color.RGBA{160, 160, 160, 255}
	legend := "F11 Fullscreen  F12 Status Bar  Esc Quit"
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := max(width-legendW-6, 6)
	text.Draw(screen, legend, basicfont.Face7x13, legendX, y+39, legendColor)
}
