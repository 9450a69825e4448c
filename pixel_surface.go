// pixel_surface.go - CPU-side pixel buffer and its presentation target

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
	"errors"
	"fmt"
)

const (
	BYTES_PER_PIXEL   = 4
	MAX_SURFACE_BYTES = 1 << 30
)

var errSurfaceNotReady = errors.New("pixel surface has no buffer")

// PixelAllocator hands out pixel buffers. The default is the Go heap; tests
// substitute a tracking allocator.
type PixelAllocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

type heapAllocator struct{}

func (heapAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 || size > MAX_SURFACE_BYTES {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSurfaceSize, size)
	}
	return make([]byte, size), nil
}

func (heapAllocator) Free([]byte) {}

// PixelSurface owns a packed 32-bit pixel buffer (0xAARRGGBB stored
// little-endian) and the video target it is presented through. Stride and
// buffer are always replaced together by Resize.
type PixelSurface struct {
	video  VideoOutput
	alloc  PixelAllocator
	target TargetHandle
	pixels []byte
	width  int
	height int
	stride int
}

func NewPixelSurface(video VideoOutput, alloc PixelAllocator) *PixelSurface {
	if alloc == nil {
		alloc = heapAllocator{}
	}
	return &PixelSurface{video: video, alloc: alloc}
}

// Resize releases the current buffer and target, then allocates both anew
// for width×height. Any previous pixel content is gone and must be
// regenerated before the next Present.
func (s *PixelSurface) Resize(width, height int) error {
	if width <= 0 || height <= 0 || width > MAX_SURFACE_BYTES/BYTES_PER_PIXEL/height {
		return &ResizeError{Width: width, Height: height, Err: ErrInvalidSurfaceSize}
	}
	if err := s.Release(); err != nil {
		return &ResizeError{Width: width, Height: height, Err: err}
	}

	target, err := s.video.CreateTarget(width, height)
	if err != nil {
		return &ResizeError{Width: width, Height: height, Err: err}
	}
	stride := width * BYTES_PER_PIXEL
	pixels, err := s.alloc.Alloc(height * stride)
	if err != nil {
		_ = s.video.DestroyTarget(target)
		return &ResizeError{Width: width, Height: height, Err: err}
	}

	s.target = target
	s.pixels = pixels
	s.width = width
	s.height = height
	s.stride = stride
	return nil
}

// WritePixel stores color at column x of row y. The caller keeps x and y
// inside the surface.
func (s *PixelSurface) WritePixel(x, y int, color uint32) {
	binary.LittleEndian.PutUint32(s.pixels[y*s.stride+x*BYTES_PER_PIXEL:], color)
}

// Row returns the bytes of row y, exactly width×4 long.
func (s *PixelSurface) Row(y int) []byte {
	off := y * s.stride
	return s.pixels[off : off+s.width*BYTES_PER_PIXEL]
}

// Present hands the buffer, unchanged, to the video service.
func (s *PixelSurface) Present() error {
	if s.pixels == nil {
		return errSurfaceNotReady
	}
	if err := s.video.Blit(s.target, s.pixels, s.stride); err != nil {
		return err
	}
	return s.video.Present(s.target)
}

// Release destroys the presentation target and frees the pixel buffer.
func (s *PixelSurface) Release() error {
	var err error
	if s.target != noTarget {
		err = s.video.DestroyTarget(s.target)
		s.target = noTarget
	}
	if s.pixels != nil {
		s.alloc.Free(s.pixels)
		s.pixels = nil
	}
	s.width, s.height, s.stride = 0, 0, 0
	return err
}

func (s *PixelSurface) Width() int { return s.width }

func (s *PixelSurface) Height() int { return s.height }

func (s *PixelSurface) Stride() int { return s.stride }

func (s *PixelSurface) Bytes() []byte { return s.pixels }

// packedToRGBA converts rows of little-endian 0xAARRGGBB pixels with the
// given pitch into tightly packed RGBA bytes with opaque alpha.
func packedToRGBA(dst, src []byte, width, height, pitch int) {
	for y := range height {
		srcRow := src[y*pitch : y*pitch+width*BYTES_PER_PIXEL]
		dstRow := dst[y*width*BYTES_PER_PIXEL : (y+1)*width*BYTES_PER_PIXEL]
		for x := 0; x < len(srcRow); x += BYTES_PER_PIXEL {
			dstRow[x] = srcRow[x+2]
			dstRow[x+1] = srcRow[x+1]
			dstRow[x+2] = srcRow[x]
			dstRow[x+3] = 0xFF
		}
	}
}
