// png.go — Lossless PNG output.
package imageio

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xob0t/StegoShield/pkg/stego"
)

// ErrLossyOutput is returned for output paths that are not PNG files.
var ErrLossyOutput = errors.New("encoded images must be saved as .png")

// CheckOutputPath rejects any output extension other than ".png".
func CheckOutputPath(path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
		return fmt.Errorf("%w: got %q", ErrLossyOutput, ext)
	}
	return nil
}

// EncodePNG writes buf to w as an opaque truecolor PNG.
func EncodePNG(w io.Writer, buf *stego.PixelBuffer) error {
	if err := png.Encode(w, ToImage(buf)); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

// WritePNG encodes buf to a PNG file at the given path.
func WritePNG(output string, buf *stego.PixelBuffer) error {
	if err := CheckOutputPath(output); err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := EncodePNG(f, buf); err != nil {
		return err
	}
	return f.Sync()
}
