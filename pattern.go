// pattern.go - Procedural test pattern

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
)

// PatternFunc returns the packed 0xAARRGGBB color of pixel (x, y) for the
// given scroll offsets. Implementations are pure.
type PatternFunc func(x, y, xOffset, yOffset int) uint32

const (
	GRADIENT_RED   = 128
	GRID_X_SPACING = 128
	GRID_X_WIDTH   = 3
	GRID_Y_SPACING = 256
	GRID_Y_WIDTH   = 4
	OPAQUE_ALPHA   = 0xFF000000
)

func packColor(red, green, blue uint8) uint32 {
	return OPAQUE_ALPHA | uint32(red)<<16 | uint32(green)<<8 | uint32(blue)
}

// GradientColor scrolls blue along x and green along y over a flat red.
// Channels wrap by truncation to 8 bits.
func GradientColor(x, y, xOffset, yOffset int) uint32 {
	return packColor(GRADIENT_RED, uint8(y+yOffset), uint8(x+xOffset))
}

// GridColor is the gradient with fixed red grid lines every 128 columns and
// 256 rows.
func GridColor(x, y, xOffset, yOffset int) uint32 {
	var red uint8
	if x%GRID_X_SPACING < GRID_X_WIDTH || y%GRID_Y_SPACING < GRID_Y_WIDTH {
		red = 0xFF
	}
	return packColor(red, uint8(y+yOffset), uint8(x+xOffset))
}

func patternFromName(name string) (PatternFunc, error) {
	switch name {
	case "", "gradient":
		return GradientColor, nil
	case "grid":
		return GridColor, nil
	}
	return nil, fmt.Errorf("unknown pattern: %q", name)
}

// Render regenerates every pixel of the surface.
func Render(surface *PixelSurface, pattern PatternFunc, xOffset, yOffset int) {
	width := surface.Width()
	for y := range surface.Height() {
		row := surface.Row(y)
		for x := range width {
			binary.LittleEndian.PutUint32(row[x*BYTES_PER_PIXEL:], pattern(x, y, xOffset, yOffset))
		}
	}
}
