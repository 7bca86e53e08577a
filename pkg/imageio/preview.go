// preview.go — Side-by-side before/after preview.
package imageio

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/xob0t/StegoShield/pkg/stego"
)

const previewGap = 16

var previewBackground = color.RGBA{0x1a, 0x1a, 0x2e, 0xff}

// Preview places the given buffers next to each other, each scaled to fit a
// maxSide×maxSide box. Typical use is carrier on the left, encoded image or
// extracted secret on the right. maxSide <= 0 defaults to 512.
func Preview(maxSide int, bufs ...*stego.PixelBuffer) *image.RGBA {
	if maxSide <= 0 {
		maxSide = 512
	}

	rects := make([]image.Rectangle, len(bufs))
	x, height := previewGap, 0
	for i, b := range bufs {
		w, h := fitBox(b.Width, b.Height, maxSide)
		rects[i] = image.Rect(x, previewGap, x+w, previewGap+h)
		x += w + previewGap
		height = max(height, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, x, height+2*previewGap))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{previewBackground}, image.Point{}, draw.Src)
	for i, b := range bufs {
		src := ToImage(b)
		draw.CatmullRom.Scale(dst, rects[i], src, src.Bounds(), draw.Src, nil)
	}
	return dst
}

// fitBox scales w×h down to fit within side×side, keeping the aspect ratio.
// Images already smaller than the box are left at their size.
func fitBox(w, h, side int) (int, int) {
	if w <= side && h <= side {
		return max(w, 1), max(h, 1)
	}
	if w >= h {
		return side, max(h*side/w, 1)
	}
	return max(w*side/h, 1), side
}
