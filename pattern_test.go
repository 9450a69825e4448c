package main

import (
	"encoding/binary"
	"testing"
)

func TestGradientColor(t *testing.T) {
	cases := []struct {
		x, y, xo, yo int
		want         uint32
	}{
		{0, 0, 0, 0, 0xFF800000},
		{10, 20, 0, 0, 0xFF80140A},
		{255, 0, 1, 0, 0xFF800000},
		{0, 0, -1, -1, 0xFF80FFFF},
		{300, 600, 5, 10, 0xFF806231},
	}
	for _, tc := range cases {
		if got := GradientColor(tc.x, tc.y, tc.xo, tc.yo); got != tc.want {
			t.Fatalf("GradientColor(%d,%d,%d,%d): expected 0x%08X, got 0x%08X", tc.x, tc.y, tc.xo, tc.yo, tc.want, got)
		}
	}
}

func TestGridColor(t *testing.T) {
	if got := GridColor(0, 10, 0, 0); got>>16&0xFF != 0xFF {
		t.Fatalf("expected red on grid column, got 0x%08X", got)
	}
	if got := GridColor(10, 257, 0, 0); got>>16&0xFF != 0xFF {
		t.Fatalf("expected red on grid row, got 0x%08X", got)
	}
	if got := GridColor(10, 10, 3, 4); got != 0xFF000E0D {
		t.Fatalf("expected 0xFF000E0D off the grid, got 0x%08X", got)
	}
}

func TestRenderFillsSurface(t *testing.T) {
	s := NewPixelSurface(newFakeVideo(), nil)
	if err := s.Resize(300, 3); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	Render(s, GradientColor, 7, 2)
	for y := range 3 {
		for x := range 300 {
			off := y*s.Stride() + x*4
			got := binary.LittleEndian.Uint32(s.Bytes()[off:])
			if want := GradientColor(x, y, 7, 2); got != want {
				t.Fatalf("pixel (%d,%d): expected 0x%08X, got 0x%08X", x, y, want, got)
			}
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	a := NewPixelSurface(newFakeVideo(), nil)
	b := NewPixelSurface(newFakeVideo(), nil)
	for _, s := range []*PixelSurface{a, b} {
		if err := s.Resize(64, 64); err != nil {
			t.Fatalf("Resize: %v", err)
		}
		Render(s, GridColor, 11, -3)
	}
	for i := range a.Bytes() {
		if a.Bytes()[i] != b.Bytes()[i] {
			t.Fatalf("byte %d differs between identical renders", i)
		}
	}
}

func TestPatternFromName(t *testing.T) {
	for _, name := range []string{"", "gradient", "grid"} {
		if _, err := patternFromName(name); err != nil {
			t.Fatalf("pattern %q: %v", name, err)
		}
	}
	if _, err := patternFromName("plasma"); err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}
