// formats.go — Accepted input extensions.
package imageio

import (
	"path/filepath"
	"slices"
	"strings"
)

// DefaultInputExtensions lists the carrier and secret file types accepted
// from users. Lossy inputs are fine as carriers; only the output must be PNG.
var DefaultInputExtensions = []string{"png", "jpg", "jpeg", "bmp", "webp", "gif", "tif", "tiff", "qoi"}

// AllowedInput reports whether name has one of the allowed extensions.
// A nil list means DefaultInputExtensions.
func AllowedInput(name string, allowed []string) bool {
	if allowed == nil {
		allowed = DefaultInputExtensions
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return ext != "" && slices.Contains(allowed, ext)
}
