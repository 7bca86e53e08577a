// Package imageio converts between image container files and the codec's
// stego.PixelBuffer.
//
// Decoding accepts every registered format: PNG, JPEG and GIF from the
// standard library, BMP, TIFF and WebP from golang.org/x/image and QOI.
// Encoding only ever produces PNG, because a lossy container would destroy
// the bits hidden in the channel LSBs.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/xob0t/StegoShield/pkg/stego"
)

// ErrTooLarge is returned when an image exceeds the caller's pixel limit.
var ErrTooLarge = errors.New("image too large")

// Decode reads any registered image format into a PixelBuffer, dropping
// alpha. It returns the format name reported by image.Decode.
func Decode(r io.Reader) (*stego.PixelBuffer, string, error) {
	return DecodeLimited(r, 0)
}

// DecodeLimited is Decode with an upper bound on width×height checked
// before pixel data is decoded. maxPixels <= 0 disables the check.
func DecodeLimited(r io.Reader, maxPixels int) (*stego.PixelBuffer, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	if maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decode image header: %w", err)
		}
		if cfg.Width*cfg.Height > maxPixels {
			return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return FromImage(img), format, nil
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string) (*stego.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	buf, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// FromImage copies img into a new PixelBuffer. Alpha is discarded without
// premultiplying, and 16-bit channels keep their high byte.
func FromImage(img image.Image) *stego.PixelBuffer {
	b := img.Bounds()
	buf := stego.NewPixelBuffer(b.Dx(), b.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < b.Dx(); x++ {
				buf.Set(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
	case *image.RGBA:
		// Opaque RGBA pixels are identical to NRGBA ones.
		if src.Opaque() {
			for y := 0; y < b.Dy(); y++ {
				row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
				for x := 0; x < b.Dx(); x++ {
					buf.Set(x, y, row[x*4], row[x*4+1], row[x*4+2])
				}
			}
			break
		}
		fromGeneric(buf, img)
	default:
		fromGeneric(buf, img)
	}
	return buf
}

func fromGeneric(buf *stego.PixelBuffer, img image.Image) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			buf.Set(x, y, c.R, c.G, c.B)
		}
	}
}

// ToImage returns an opaque image.NRGBA holding the buffer's pixels.
func ToImage(buf *stego.PixelBuffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for i, j := 0, 0; i < len(buf.Pix); i, j = i+stego.Channels, j+4 {
		img.Pix[j] = buf.Pix[i]
		img.Pix[j+1] = buf.Pix[i+1]
		img.Pix[j+2] = buf.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
