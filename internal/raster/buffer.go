// Package raster draws flat-colored primitives into a linear ARGB pixel
// buffer. Every write goes through Buffer.DrawPixel, which drops anything
// outside the buffer.
package raster

import (
	"image"
	"image/color"
)

// Color is a packed 0xAARRGGBB value.
type Color uint32

const (
	Black    Color = 0xFF000000
	GridGray Color = 0xFF333333
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(c >> 24),
	}.RGBA()
}

// Buffer is a width×height framebuffer stored row-major: pixel (x, y)
// lives at Pix[y*Width+x].
type Buffer struct {
	Pix    []uint32
	Width  int
	Height int
}

func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Pix:    make([]uint32, width*height),
		Width:  width,
		Height: height,
	}
}

// DrawPixel sets (x, y) to c. Coordinates outside the buffer are ignored.
func (b *Buffer) DrawPixel(x, y int, c Color) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = uint32(c)
}

// Pixel returns the value at (x, y), or 0 outside the buffer.
func (b *Buffer) Pixel(x, y int) Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return 0
	}
	return Color(b.Pix[y*b.Width+x])
}

// Clear fills the whole buffer with c.
func (b *Buffer) Clear(c Color) {
	for i := range b.Pix {
		b.Pix[i] = uint32(c)
	}
}

// DrawGrid plots a dot every spacing pixels in both directions.
func (b *Buffer) DrawGrid(spacing int) {
	if spacing <= 0 {
		return
	}
	for y := 0; y < b.Height; y += spacing {
		for x := 0; x < b.Width; x += spacing {
			b.DrawPixel(x, y, GridGray)
		}
	}
}

// DrawRect fills the w×h rectangle with top-left corner (x, y).
func (b *Buffer) DrawRect(x, y, w, h int, c Color) {
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			b.DrawPixel(x+i, y+j, c)
		}
	}
}

// ColorModel, Bounds, At and Set make a Buffer usable as a draw.Image, so
// frames can go straight to image encoders.

func (b *Buffer) ColorModel() color.Model { return color.NRGBAModel }

func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

func (b *Buffer) At(x, y int) color.Color { return b.Pixel(x, y) }

func (b *Buffer) Set(x, y int, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	b.DrawPixel(x, y, Color(uint32(n.A)<<24|uint32(n.R)<<16|uint32(n.G)<<8|uint32(n.B)))
}
