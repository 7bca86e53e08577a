// pixel.go — Flat RGB pixel buffer shared by the codec and its callers.
package stego

import "fmt"

// Channels is the number of 8-bit channels stored per pixel.
const Channels = 3

// PixelBuffer is a row-major RGB image with 3 bytes per pixel.
// Pix[(y*Width+x)*3 : (y*Width+x)*3+3] holds the R, G, B values of (x, y).
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer allocates a zeroed w×h buffer.
func NewPixelBuffer(w, h int) *PixelBuffer {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &PixelBuffer{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h*Channels),
	}
}

// Len returns the number of pixels.
func (b *PixelBuffer) Len() int {
	return b.Width * b.Height
}

// Capacity returns how many frame bits the buffer can host: one per channel.
func (b *PixelBuffer) Capacity() int {
	return len(b.Pix)
}

// At returns the R, G, B values of the pixel at (x, y).
func (b *PixelBuffer) At(x, y int) (r, g, bl uint8) {
	i := (y*b.Width + x) * Channels
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Set stores the R, G, B values of the pixel at (x, y).
func (b *PixelBuffer) Set(x, y int, r, g, bl uint8) {
	i := (y*b.Width + x) * Channels
	b.Pix[i], b.Pix[i+1], b.Pix[i+2] = r, g, bl
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Equal reports whether both buffers have the same dimensions and pixels.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Width != o.Width || b.Height != o.Height || len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Validate checks that the buffer is non-empty and that Pix matches the
// declared dimensions.
func (b *PixelBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil pixel buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * Channels; len(b.Pix) != want {
		return fmt.Errorf("pixel data is %d bytes, %dx%d needs %d", len(b.Pix), b.Width, b.Height, want)
	}
	return nil
}
