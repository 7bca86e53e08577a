package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/StegoShield/pkg/config"
	"github.com/xob0t/StegoShield/pkg/imageio"
	"github.com/xob0t/StegoShield/pkg/stego"
)

func writeCarrier(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "carrier.png")
	buf, err := imageio.NewCover(imageio.CoverConfig{Width: w, Height: h, Color: "#336699", Caption: "cover", FontSize: 12})
	require.NoError(t, err)
	require.NoError(t, imageio.WritePNG(path, buf))
	return path
}

func TestTextCommands(t *testing.T) {
	dir := t.TempDir()
	carrier := writeCarrier(t, dir, 80, 60)
	encoded := filepath.Join(dir, "encoded.png")
	preview := filepath.Join(dir, "preview.png")
	msgFile := filepath.Join(dir, "msg.txt")
	outFile := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(msgFile, []byte("from a file\nwith two lines"), 0644))

	require.NoError(t, runEncodeText([]string{"-carrier", carrier, "-o", encoded, "-message-file", msgFile, "-preview", preview}))
	require.NoError(t, runDecodeText([]string{"-in", encoded, "-o", outFile}))

	got, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "from a file\nwith two lines", string(got))
	assert.FileExists(t, preview)
}

func TestImageCommands(t *testing.T) {
	dir := t.TempDir()
	carrier := writeCarrier(t, dir, 60, 60)

	secretPath := filepath.Join(dir, "secret.png")
	secret, err := imageio.NewCover(imageio.CoverConfig{Width: 6, Height: 4, Color: "#ff0000"})
	require.NoError(t, err)
	require.NoError(t, imageio.WritePNG(secretPath, secret))

	encoded := filepath.Join(dir, "encoded.png")
	extracted := filepath.Join(dir, "extracted.png")
	require.NoError(t, runEncodeImage([]string{"-carrier", carrier, "-secret", secretPath, "-o", encoded}))
	require.NoError(t, runDecodeImage([]string{"-in", encoded, "-o", extracted}))

	got, err := imageio.DecodeFile(extracted)
	require.NoError(t, err)
	assert.True(t, secret.Equal(got))
}

func TestEncodeImage_TooLarge(t *testing.T) {
	dir := t.TempDir()
	carrier := writeCarrier(t, dir, 10, 10)

	err := runEncodeImage([]string{"-carrier", carrier, "-secret", carrier, "-o", filepath.Join(dir, "x.png")})
	require.Error(t, err)
	assert.Equal(t, exitCapacity, exitCode(err))
}

func TestDecodeText_NotEncoded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.png")
	require.NoError(t, imageio.WritePNG(path, stego.NewPixelBuffer(20, 20)))

	err := runDecodeText([]string{"-in", path})
	require.Error(t, err)
	assert.Equal(t, exitNotEncoded, exitCode(err))
}

func TestRejectsLossyOutput(t *testing.T) {
	dir := t.TempDir()
	carrier := writeCarrier(t, dir, 20, 20)

	err := runEncodeText([]string{"-carrier", carrier, "-o", filepath.Join(dir, "out.jpg"), "-message", "hi"})
	assert.ErrorIs(t, err, imageio.ErrLossyOutput)

	err = runCover([]string{"-o", filepath.Join(dir, "cover.bmp")})
	assert.ErrorIs(t, err, imageio.ErrLossyOutput)
}

func TestExitCode(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{&stego.Error{Op: "embed", Err: stego.ErrCapacityExceeded}, exitCapacity},
		{&stego.Error{Op: "extract", Err: stego.ErrTruncatedFrame}, exitNotEncoded},
		{&stego.Error{Op: "extract", Err: stego.ErrUnexpectedKind}, exitNotEncoded},
		{&stego.Error{Op: "extract", Err: stego.ErrInvalidEncoding}, exitCorrupt},
		{&stego.Error{Op: "extract", Err: stego.ErrCorruptHeader}, exitCorrupt},
		{&stego.Error{Op: "extract", Err: stego.ErrIncompletePixelData}, exitCorrupt},
		{errors.New("disk full"), exitError},
	} {
		assert.Equal(t, tc.want, exitCode(tc.err), tc.err.Error())
	}
}

func TestCoverAndCapacity(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cover.png")
	require.NoError(t, runCover([]string{"-o", out, "-w", "100", "-h", "100", "-color", "#000000"}))

	buf, err := imageio.DecodeFile(out)
	require.NoError(t, err)
	assert.Equal(t, 10000, buf.Len())
	assert.Contains(t, formatCapacity(buf), "30000 bits (3750 bytes)")
	assert.Contains(t, formatCapacity(buf), "Max text:      2808 bytes")
	assert.NoError(t, runCapacity([]string{"-carrier", out}))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stegoshield.yaml")
	require.NoError(t, runInit([]string{"-config", path}))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestMissingFlags(t *testing.T) {
	assert.Error(t, runEncodeText(nil))
	assert.Error(t, runDecodeText(nil))
	assert.Error(t, runEncodeImage(nil))
	assert.Error(t, runDecodeImage(nil))
	assert.Error(t, runCapacity(nil))
	assert.Error(t, runCover(nil))
}
