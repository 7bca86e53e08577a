package stego

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plant writes the bits of w into the LSBs of a fresh w×h carrier.
func plant(t *testing.T, bw *bitWriter, width, height int) *PixelBuffer {
	t.Helper()
	buf := makeCarrier(width, height)
	require.LessOrEqual(t, bw.n, buf.Capacity(), "crafted frame does not fit")
	for i := 0; i < bw.n; i++ {
		buf.Pix[i] = buf.Pix[i]&^1 | bw.bit(i)
	}
	return buf
}

// textFrame builds a frame with tag 0 and the given raw body characters.
func textFrame(body string) *bitWriter {
	bw := newBitWriter(0)
	bw.writeUint(uint64(tagBits+len(body)*bitsPerChar), lengthBits)
	bw.writeUint(uint64(KindText), tagBits)
	bw.writeBytes([]byte(body))
	return bw
}

// imageFrame builds a frame with tag 1, the given header and pixel bytes.
func imageFrame(header string, pix []byte) *bitWriter {
	bw := newBitWriter(0)
	body := tagBits + headerLenBits + len(header)*bitsPerChar + len(pix)*bitsPerChar
	bw.writeUint(uint64(body), lengthBits)
	bw.writeUint(uint64(KindImage), tagBits)
	bw.writeUint(uint64(len(header)*bitsPerChar), headerLenBits)
	bw.writeBytes([]byte(header))
	bw.writeBytes(pix)
	return bw
}

func TestBitWriter(t *testing.T) {
	bw := newBitWriter(16)
	bw.writeUint(0b101, 3)
	bw.writeUint(0xAB, 8)
	require.Equal(t, 11, bw.n)
	assert.Equal(t, []byte{0b10110101, 0b01100000}, bw.buf)

	r := &lsbReader{pix: make([]uint8, bw.n)}
	for i := 0; i < bw.n; i++ {
		r.pix[i] = 0xf0 | bw.bit(i)
	}
	assert.Equal(t, uint64(0b101), r.readUint(3))
	assert.Equal(t, uint64(0xAB), r.readUint(8))
	assert.Zero(t, r.remaining())
}

func TestEmbed_FrameLayout(t *testing.T) {
	enc, err := Embed(NewPixelBuffer(30, 1), TextPayload([]byte("hi")))
	require.NoError(t, err)

	r := &lsbReader{pix: enc.Pix}
	assert.Equal(t, uint64(33), r.readUint(lengthBits))
	assert.Equal(t, uint64(KindText), r.readUint(tagBits))
	assert.Equal(t, "aGk=", string(r.readBytes(4)))
	// The zeroed carrier keeps every channel past the frame at zero.
	for _, v := range enc.Pix[65:] {
		require.Zero(t, v)
	}
}

func TestExtract_CraftedFrames(t *testing.T) {
	for _, tc := range []struct {
		name  string
		frame func() *bitWriter
		want  error
	}{
		{
			name:  "valid_text",
			frame: func() *bitWriter { return textFrame("aGk=") },
		},
		{
			name: "zero_length",
			frame: func() *bitWriter {
				bw := newBitWriter(0)
				bw.writeUint(0, lengthBits)
				return bw
			},
			want: ErrTruncatedFrame,
		},
		{
			name:  "text_not_base64",
			frame: func() *bitWriter { return textFrame("a*k=") },
			want:  ErrInvalidEncoding,
		},
		{
			name:  "text_bad_padding",
			frame: func() *bitWriter { return textFrame("aGk") },
			want:  ErrInvalidEncoding,
		},
		{
			name:  "text_newline",
			frame: func() *bitWriter { return textFrame("aG\nk=") },
			want:  ErrInvalidEncoding,
		},
		{
			name: "text_partial_char",
			frame: func() *bitWriter {
				bw := newBitWriter(0)
				bw.writeUint(tagBits+12, lengthBits)
				bw.writeUint(uint64(KindText), tagBits)
				bw.writeUint(0xabc, 12)
				return bw
			},
			want: ErrInvalidEncoding,
		},
		{
			name: "text_empty_body",
			frame: func() *bitWriter {
				bw := newBitWriter(0)
				bw.writeUint(tagBits, lengthBits)
				bw.writeUint(uint64(KindText), tagBits)
				return bw
			},
			want: ErrInvalidEncoding,
		},
		{
			name:  "valid_image",
			frame: func() *bitWriter { return imageFrame("2x1", []byte{1, 2, 3, 4, 5, 6}) },
		},
		{
			name:  "image_no_separator",
			frame: func() *bitWriter { return imageFrame("2y1", []byte{1, 2, 3, 4, 5, 6}) },
			want:  ErrCorruptHeader,
		},
		{
			name:  "image_zero_width",
			frame: func() *bitWriter { return imageFrame("0x1", []byte{1, 2, 3}) },
			want:  ErrCorruptHeader,
		},
		{
			name:  "image_negative",
			frame: func() *bitWriter { return imageFrame("-2x1", []byte{1, 2, 3, 4, 5, 6}) },
			want:  ErrCorruptHeader,
		},
		{
			name:  "image_three_parts",
			frame: func() *bitWriter { return imageFrame("1x1x1", []byte{1, 2, 3}) },
			want:  ErrCorruptHeader,
		},
		{
			name: "image_header_longer_than_body",
			frame: func() *bitWriter {
				bw := newBitWriter(0)
				bw.writeUint(tagBits+headerLenBits+8, lengthBits)
				bw.writeUint(uint64(KindImage), tagBits)
				bw.writeUint(800, headerLenBits)
				bw.writeBytes([]byte("5"))
				return bw
			},
			want: ErrCorruptHeader,
		},
		{
			name: "image_no_header_length",
			frame: func() *bitWriter {
				bw := newBitWriter(0)
				bw.writeUint(tagBits+4, lengthBits)
				bw.writeUint(uint64(KindImage), tagBits)
				bw.writeUint(0, 4)
				return bw
			},
			want: ErrCorruptHeader,
		},
		{
			name:  "image_missing_pixels",
			frame: func() *bitWriter { return imageFrame("5x5", make([]byte, 12)) },
			want:  ErrIncompletePixelData,
		},
		{
			name:  "image_huge_dimensions",
			frame: func() *bitWriter { return imageFrame("2000000000x2000000000", make([]byte, 3)) },
			want:  ErrIncompletePixelData,
		},
		{
			name:  "image_trailing_bits",
			frame: func() *bitWriter { return imageFrame("1x1", []byte{9, 9, 9, 9}) },
			want:  ErrCorruptHeader,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := plant(t, tc.frame(), 64, 8)
			p, err := Extract(buf)
			if tc.want == nil {
				require.NoError(t, err)
				if p.Kind == KindImage {
					assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, p.Image.Pix)
				} else {
					assert.Equal(t, "hi", string(p.Text))
				}
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseImageHeader(t *testing.T) {
	w, h, err := parseImageHeader("640x480")
	require.NoError(t, err)
	assert.Equal(t, int64(640), w)
	assert.Equal(t, int64(480), h)

	for _, bad := range []string{"", "x", "640x", "x480", "640X480", "6 40x480", "+1x1", "0x1", "05x5", "99999999999x1"} {
		_, _, err := parseImageHeader(bad)
		assert.Errorf(t, err, "header %q", bad)
	}
}
