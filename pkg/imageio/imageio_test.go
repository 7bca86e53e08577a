package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"

	"github.com/xob0t/StegoShield/pkg/stego"
)

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 17) ^ (y * 31)),
				G: uint8((x * 43) + (y * 13)),
				B: uint8((x * 7) ^ (y * 11)),
				A: 255,
			})
		}
	}
	return img
}

func TestFromImage_NRGBA(t *testing.T) {
	src := makeTestImage(8, 6)
	buf := FromImage(src)

	require.Equal(t, 8, buf.Width)
	require.Equal(t, 6, buf.Height)
	r, g, b := buf.At(3, 2)
	c := src.NRGBAAt(3, 2)
	assert.Equal(t, [3]uint8{c.R, c.G, c.B}, [3]uint8{r, g, b})
}

func TestFromImage_DropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 10})

	r, g, b := FromImage(src).At(0, 0)
	assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{r, g, b})
}

func TestFromImage_SubImage(t *testing.T) {
	src := makeTestImage(10, 10)
	sub := src.SubImage(image.Rect(2, 3, 6, 8)).(*image.NRGBA)

	buf := FromImage(sub)
	require.Equal(t, 4, buf.Width)
	require.Equal(t, 5, buf.Height)
	r, g, b := buf.At(0, 0)
	c := src.NRGBAAt(2, 3)
	assert.Equal(t, [3]uint8{c.R, c.G, c.B}, [3]uint8{r, g, b})
}

func TestFromImage_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(1, 0, color.Gray{Y: 77})

	r, g, b := FromImage(src).At(1, 0)
	assert.Equal(t, [3]uint8{77, 77, 77}, [3]uint8{r, g, b})
}

func TestPNGRoundTrip(t *testing.T) {
	orig := FromImage(makeTestImage(32, 24))

	var out bytes.Buffer
	require.NoError(t, EncodePNG(&out, orig))

	got, format, err := Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.True(t, orig.Equal(got))
}

func TestDecode_LosslessFormats(t *testing.T) {
	src := makeTestImage(16, 16)
	want := FromImage(src)

	for _, tc := range []struct {
		name   string
		format string
		encode func(*bytes.Buffer) error
	}{
		{name: "bmp", format: "bmp", encode: func(b *bytes.Buffer) error { return bmp.Encode(b, src) }},
		{name: "qoi", format: "qoi", encode: func(b *bytes.Buffer) error { return qoi.Encode(b, src) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var b bytes.Buffer
			require.NoError(t, tc.encode(&b))

			got, format, err := Decode(&b)
			require.NoError(t, err)
			assert.Equal(t, tc.format, format)
			assert.True(t, want.Equal(got), "pixels differ after %s round trip", tc.name)
		})
	}
}

func TestDecode_JPEGCarrier(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, jpeg.Encode(&b, makeTestImage(40, 30), &jpeg.Options{Quality: 90}))

	buf, format, err := Decode(&b)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 40, buf.Width)
	assert.Equal(t, 30, buf.Height)
}

func TestDecode_Garbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
}

func TestDecodeLimited(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, EncodePNG(&b, FromImage(makeTestImage(20, 20))))
	data := b.Bytes()

	_, _, err := DecodeLimited(bytes.NewReader(data), 399)
	assert.ErrorIs(t, err, ErrTooLarge)

	buf, _, err := DecodeLimited(bytes.NewReader(data), 400)
	require.NoError(t, err)
	assert.Equal(t, 400, buf.Len())
}

func TestEmbedThroughPNG(t *testing.T) {
	carrier := FromImage(makeTestImage(100, 100))
	enc, err := stego.Embed(carrier, stego.TextPayload([]byte("hi")))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "encoded.png")
	require.NoError(t, WritePNG(path, enc))

	back, err := DecodeFile(path)
	require.NoError(t, err)
	msg, err := stego.ExtractText(back)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(msg))
}

func TestWritePNG_RejectsLossy(t *testing.T) {
	dir := t.TempDir()
	buf := FromImage(makeTestImage(4, 4))

	for _, name := range []string{"out.jpg", "out.jpeg", "out.webp", "out", "out.png.gif"} {
		err := WritePNG(filepath.Join(dir, name), buf)
		assert.ErrorIsf(t, err, ErrLossyOutput, "output %s", name)
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.Truef(t, os.IsNotExist(statErr), "%s should not be created", name)
	}

	assert.NoError(t, CheckOutputPath("OUT.PNG"))
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestAllowedInput(t *testing.T) {
	for name, want := range map[string]bool{
		"photo.PNG":   true,
		"photo.jpeg":  true,
		"scan.tiff":   true,
		"frame.qoi":   true,
		"vector.svg":  false,
		"noextension": false,
		"archive.zip": false,
	} {
		assert.Equalf(t, want, AllowedInput(name, nil), "AllowedInput(%q)", name)
	}
	assert.True(t, AllowedInput("a.png", []string{"png"}))
	assert.False(t, AllowedInput("a.jpg", []string{"png"}))
}
