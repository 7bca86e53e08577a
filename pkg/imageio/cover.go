// cover.go — Generated carrier images for users without a suitable photo.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/StegoShield/pkg/stego"
)

// CoverConfig holds parameters for carrier generation.
type CoverConfig struct {
	Width        int     // Pixel width (default: 1280)
	Height       int     // Pixel height (default: 720)
	Color        string  // Hex "#rrggbb" or "random"
	Caption      string  // Optional text drawn centred on the image
	CaptionColor string  // Hex "#rrggbb" (default: white)
	FontPath     string  // TTF/OTF file; empty uses Go Regular
	FontSize     float64 // Points at 72 DPI (default: 48)
}

// NewCover renders a solid-colour carrier with an optional caption.
func NewCover(cfg CoverConfig) (*stego.PixelBuffer, error) {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = 48
	}

	bg, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if strings.TrimSpace(cfg.Caption) != "" {
		fg := color.RGBA{255, 255, 255, 255}
		if cfg.CaptionColor != "" {
			if fg, err = ParseColor(cfg.CaptionColor); err != nil {
				return nil, fmt.Errorf("caption: %w", err)
			}
		}
		face, err := loadFace(cfg.FontPath, cfg.FontSize)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		drawCaption(img, cfg.Caption, fg, face)
	}

	return FromImage(img), nil
}

// ParseColor reads "#rrggbb" (the "#" is optional). An empty string or
// "random" picks a random opaque colour, so every generated carrier differs.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "random" {
		v := rand.Uint32()
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb or random", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb or random", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// loadFace parses the font at path, falling back to the embedded Go font
// when path is empty.
func loadFace(path string, size float64) (font.Face, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// drawCaption draws text wrapped to 90% of the image width, centred.
func drawCaption(img *image.RGBA, text string, col color.Color, face font.Face) {
	b := img.Bounds()
	lines := wrapText(text, b.Dx()*9/10, face)

	m := face.Metrics()
	lineHeight := (m.Ascent + m.Descent).Ceil()
	y := (b.Dy()-lineHeight*len(lines))/2 + m.Ascent.Ceil()

	d := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	for _, line := range lines {
		w := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((b.Dx()-w)/2, y)
		d.DrawString(line)
		y += lineHeight
	}
}

// wrapText breaks text into lines no wider than maxWidth pixels.
func wrapText(text string, maxWidth int, face font.Face) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		next := current + " " + word
		if font.MeasureString(face, next).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = next
	}
	return append(lines, current)
}
