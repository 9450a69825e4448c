//go:build !headless

package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestClipboardPaste_Normalize(t *testing.T) {
	in := []byte("a\r\nb\rc\n")
	got := normalizePasteText(in)
	want := "a\nb\nc\n"
	if string(got) != want {
		t.Fatalf("expected %q, got %q", want, string(got))
	}
}

func TestClipboardPaste_Cap(t *testing.T) {
	in := make([]byte, 5000)
	got := capPasteText(in, 4096)
	if len(got) != 4096 {
		t.Fatalf("expected capped length 4096, got %d", len(got))
	}
}

func TestParseToneText(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"440", 440, true},
		{" 300 Hz\r\nsecond line", 300, true},
		{"1000hz", 1000, true},
		{"loud", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseToneText([]byte(tc.in))
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%q: expected (%d, %v), got (%d, %v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestKeySetFromPressed(t *testing.T) {
	pressed := map[ebiten.Key]bool{ebiten.KeyArrowUp: true, ebiten.KeyD: true}
	keys := keySetFromPressed(func(k ebiten.Key) bool { return pressed[k] })
	if !keys.Has(KeyUp) || !keys.Has(KeyRight) {
		t.Fatalf("expected Up and Right, got %b", keys)
	}
	if keys.Has(KeyDown) || keys.Has(KeyLeft) || keys.Has(KeyEscape) {
		t.Fatalf("unexpected keys in %b", keys)
	}
}

func TestEbitenOutput_LayoutQueuesResize(t *testing.T) {
	eo, err := NewEbitenOutput(DisplayConfig{Width: 640, Height: 480, Scale: 1}, 0)
	if err != nil {
		t.Fatalf("NewEbitenOutput: %v", err)
	}
	if w, h := eo.Layout(640, 480); w != 640 || h != 480 {
		t.Fatalf("expected 640x480 screen, got %dx%d", w, h)
	}
	if _, ok := eo.queue.PollEvent(); ok {
		t.Fatal("first layout must not queue a resize")
	}
	eo.Layout(1280, 720)
	ev, ok := eo.queue.PollEvent()
	if !ok || ev.Type != EventResize || ev.Width != 1280 || ev.Height != 720 {
		t.Fatalf("expected resize to 1280x720, got %+v (ok=%v)", ev, ok)
	}
}

func TestEbitenOutput_TargetsAndBlit(t *testing.T) {
	eo, err := NewEbitenOutput(DisplayConfig{Width: 2, Height: 1}, 2)
	if err != nil {
		t.Fatalf("NewEbitenOutput: %v", err)
	}
	handle, err := eo.CreateTarget(2, 1)
	if err != nil {
		t.Fatalf("CreateTarget: %v", err)
	}
	pixels := []byte{0x01, 0x02, 0x03, 0x00, 0x10, 0x20, 0x30, 0x00}
	if err := eo.Blit(handle, pixels, 8); err != nil {
		t.Fatalf("Blit: %v", err)
	}
	if eo.frameBuffer[0] != 0x03 || eo.frameBuffer[3] != 0xFF || eo.frameBuffer[4] != 0x30 {
		t.Fatalf("expected RGBA conversion, got % X", eo.frameBuffer)
	}
	if err := eo.Blit(handle, pixels[:4], 8); err == nil {
		t.Fatal("expected short blit to fail")
	}

	for range 2 {
		if err := eo.Present(handle); err != nil {
			t.Fatalf("Present: %v", err)
		}
	}
	if ev, ok := eo.queue.PollEvent(); !ok || ev.Type != EventQuit {
		t.Fatalf("expected quit at the frame limit, got %+v", ev)
	}

	if err := eo.DestroyTarget(handle); err != nil {
		t.Fatalf("DestroyTarget: %v", err)
	}
	if err := eo.Present(handle); err == nil {
		t.Fatal("expected present on destroyed target to fail")
	}
}
