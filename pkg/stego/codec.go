// codec.go — Embedding frames into carrier LSBs and extracting them.
package stego

import "strconv"

// Embed writes the frame for p into the least-significant bits of a copy of
// carrier and returns the copy. Channels are consumed in row-major order,
// R then G then B, one frame bit each; channels past the end of the frame
// are left untouched. The carrier itself is never modified.
//
// Embed fails with ErrCapacityExceeded when the frame is longer than
// carrier.Capacity() bits, ErrEmptyPayload for zero-length text or a
// zero-area secret image and ErrEmptyCarrier for an unusable carrier.
func Embed(carrier *PixelBuffer, p Payload) (*PixelBuffer, error) {
	if err := carrier.Validate(); err != nil {
		return nil, embedErr(ErrEmptyCarrier, "%v", err)
	}
	out := carrier.Clone()
	if err := EmbedInPlace(out, p); err != nil {
		return nil, err
	}
	return out, nil
}

// EmbedInPlace is Embed without the copy. The caller must own carrier
// exclusively for the duration of the call. On error carrier is unchanged.
func EmbedInPlace(carrier *PixelBuffer, p Payload) error {
	if err := carrier.Validate(); err != nil {
		return embedErr(ErrEmptyCarrier, "%v", err)
	}
	if err := Fits(carrier, p); err != nil {
		return err
	}

	frame, err := encodeFrame(p)
	if err != nil {
		return err
	}
	for i := 0; i < frame.n; i++ {
		carrier.Pix[i] = carrier.Pix[i]&^1 | frame.bit(i)
	}
	return nil
}

// Fits reports whether p can be embedded in carrier, returning the error
// Embed would return otherwise.
func Fits(carrier *PixelBuffer, p Payload) error {
	need, err := FrameBits(p)
	if err != nil {
		return err
	}
	if have := int64(carrier.Capacity()); need > have {
		return embedErr(ErrCapacityExceeded, "frame needs %d bits, %dx%d carrier holds %d",
			need, carrier.Width, carrier.Height, have)
	}
	return nil
}

// Extract reads a frame from the least-significant bits of buf and returns
// the payload it carries. buf is not modified. Any structural problem is an
// error; Extract never returns a partial payload.
func Extract(buf *PixelBuffer) (Payload, error) {
	if buf == nil || buf.Width < 0 || buf.Height < 0 || len(buf.Pix) != buf.Width*buf.Height*Channels {
		return Payload{}, extractErr(ErrEmptyCarrier, "pixel data does not match dimensions")
	}
	return decodeFrame(&lsbReader{pix: buf.Pix})
}

// ExtractText is Extract for callers that expect a text payload.
func ExtractText(buf *PixelBuffer) ([]byte, error) {
	p, err := Extract(buf)
	if err != nil {
		return nil, err
	}
	if p.Kind != KindText {
		return nil, extractErr(ErrUnexpectedKind, "found %s payload, expected text", p.Kind)
	}
	return p.Text, nil
}

// ExtractImage is Extract for callers that expect an image payload.
func ExtractImage(buf *PixelBuffer) (*PixelBuffer, error) {
	p, err := Extract(buf)
	if err != nil {
		return nil, err
	}
	if p.Kind != KindImage {
		return nil, extractErr(ErrUnexpectedKind, "found %s payload, expected image", p.Kind)
	}
	return p.Image, nil
}

// MaxTextBytes returns the longest text payload, in bytes, that fits in
// capacityBits frame bits.
func MaxTextBytes(capacityBits int) int {
	chars := (int64(capacityBits) - textOverheadBits) / bitsPerChar
	if chars <= 0 {
		return 0
	}
	// base64 emits 4 characters per 3 input bytes.
	return int(chars/4) * 3
}

// ImageFrameBits returns the frame size for a w×h secret image.
func ImageFrameBits(w, h int) int64 {
	hdr := int64(len(imageHeader(w, h))) * bitsPerChar
	return lengthBits + tagBits + headerLenBits + hdr + int64(w)*int64(h)*bitsPerPixel
}

// MaxSecretPixels returns an upper bound on the number of secret-image
// pixels that fit in capacityBits frame bits. The bound assumes the
// shortest possible header ("1x<n>"); wider images need a few more bits.
func MaxSecretPixels(capacityBits int) int {
	fixed := int64(lengthBits + tagBits + headerLenBits)
	n := int64(0)
	for i := 0; i < 3; i++ {
		hdr := int64(len("1"+imageHeaderSep+strconv.FormatInt(max(n, 1), 10))) * bitsPerChar
		n = (int64(capacityBits) - fixed - hdr) / bitsPerPixel
		if n <= 0 {
			return 0
		}
	}
	return int(n)
}
