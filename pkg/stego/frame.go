// frame.go — Frame layout: serialization of payloads to bits and back.
package stego

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	lengthBits       = 32
	tagBits          = 1
	headerLenBits    = 16
	bitsPerChar      = 8
	bitsPerPixel     = 24
	maxBodyBits      = 1<<lengthBits - 1
	maxHeaderBits    = 1<<headerLenBits - 1
	base64Alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="
	imageHeaderSep   = "x"
	textOverheadBits = lengthBits + tagBits
)

var textEncoding = base64.StdEncoding.Strict()

// imageHeader returns the ASCII dimension header "<w>x<h>".
func imageHeader(w, h int) string {
	return strconv.Itoa(w) + imageHeaderSep + strconv.Itoa(h)
}

// bodyBits returns the bit length of everything after the 32-bit length
// field, validating the payload on the way.
func bodyBits(p Payload) (int64, error) {
	switch p.Kind {
	case KindText:
		if len(p.Text) == 0 {
			return 0, embedErr(ErrEmptyPayload, "text is empty")
		}
		return tagBits + int64(textEncoding.EncodedLen(len(p.Text)))*bitsPerChar, nil

	case KindImage:
		img := p.Image
		if img == nil || img.Width <= 0 || img.Height <= 0 {
			return 0, embedErr(ErrEmptyPayload, "secret image has no pixels")
		}
		if err := img.Validate(); err != nil {
			return 0, embedErr(ErrEmptyPayload, "secret image: %v", err)
		}
		hdr := int64(len(imageHeader(img.Width, img.Height))) * bitsPerChar
		if hdr > maxHeaderBits {
			return 0, embedErr(ErrCapacityExceeded, "image header is %d bits, limit %d", hdr, maxHeaderBits)
		}
		return tagBits + headerLenBits + hdr + int64(img.Len())*bitsPerPixel, nil

	default:
		return 0, embedErr(ErrEmptyPayload, "unknown payload kind %d", p.Kind)
	}
}

// FrameBits returns the total number of bits Embed would write for p,
// including the 32-bit length prefix.
func FrameBits(p Payload) (int64, error) {
	body, err := bodyBits(p)
	if err != nil {
		return 0, err
	}
	if body > maxBodyBits {
		return 0, embedErr(ErrCapacityExceeded, "frame body is %d bits, limit %d", body, int64(maxBodyBits))
	}
	return lengthBits + body, nil
}

// encodeFrame serializes p into a packed bit sequence.
func encodeFrame(p Payload) (*bitWriter, error) {
	total, err := FrameBits(p)
	if err != nil {
		return nil, err
	}

	w := newBitWriter(int(total))
	w.writeUint(uint64(total-lengthBits), lengthBits)
	w.writeUint(uint64(p.Kind), tagBits)

	switch p.Kind {
	case KindText:
		w.writeBytes([]byte(textEncoding.EncodeToString(p.Text)))
	case KindImage:
		hdr := imageHeader(p.Image.Width, p.Image.Height)
		w.writeUint(uint64(len(hdr)*bitsPerChar), headerLenBits)
		w.writeBytes([]byte(hdr))
		w.writeBytes(p.Image.Pix)
	}
	return w, nil
}

// decodeFrame parses a frame from the channel LSBs behind r.
func decodeFrame(r *lsbReader) (Payload, error) {
	if r.remaining() < lengthBits {
		return Payload{}, extractErr(ErrTruncatedFrame, "need %d bits for the length prefix, buffer has %d", lengthBits, r.remaining())
	}
	body := int64(r.readUint(lengthBits))
	if body < tagBits {
		return Payload{}, extractErr(ErrTruncatedFrame, "declared body length %d leaves no room for a type tag", body)
	}
	if avail := int64(r.remaining()); body > avail {
		return Payload{}, extractErr(ErrTruncatedFrame, "declared %d bits, only %d available", body, avail)
	}

	tag := Kind(r.readUint(tagBits))
	rest := body - tagBits
	if tag == KindText {
		return decodeText(r, rest)
	}
	return decodeImage(r, rest)
}

func decodeText(r *lsbReader, bits int64) (Payload, error) {
	if bits%bitsPerChar != 0 {
		return Payload{}, extractErr(ErrInvalidEncoding, "text body of %d bits is not a whole number of characters", bits)
	}
	if bits == 0 {
		return Payload{}, extractErr(ErrInvalidEncoding, "text body is empty")
	}
	chars := r.readBytes(int(bits / bitsPerChar))
	for i, c := range chars {
		if strings.IndexByte(base64Alphabet, c) < 0 {
			return Payload{}, extractErr(ErrInvalidEncoding, "byte 0x%02x at offset %d is not base64", c, i)
		}
	}
	raw, err := textEncoding.DecodeString(string(chars))
	if err != nil {
		return Payload{}, extractErr(ErrInvalidEncoding, "%v", err)
	}
	if len(raw) == 0 {
		return Payload{}, extractErr(ErrInvalidEncoding, "text decodes to zero bytes")
	}
	return TextPayload(raw), nil
}

func decodeImage(r *lsbReader, bits int64) (Payload, error) {
	if bits < headerLenBits {
		return Payload{}, extractErr(ErrCorruptHeader, "body of %d bits has no header length", bits)
	}
	hdrBits := int64(r.readUint(headerLenBits))
	bits -= headerLenBits
	if hdrBits == 0 || hdrBits%bitsPerChar != 0 || hdrBits > bits {
		return Payload{}, extractErr(ErrCorruptHeader, "header length %d bits with %d bits remaining", hdrBits, bits)
	}
	hdr := string(r.readBytes(int(hdrBits / bitsPerChar)))
	bits -= hdrBits

	w, h, err := parseImageHeader(hdr)
	if err != nil {
		return Payload{}, extractErr(ErrCorruptHeader, "%v", err)
	}

	// Each pixel needs 24 bits, so a dimension larger than the remaining bit
	// count cannot be satisfied; this also bounds w*h below overflow.
	if w > bits || h > bits || w*h > bits/bitsPerPixel {
		return Payload{}, extractErr(ErrIncompletePixelData, "%dx%d needs %d bits, %d remain", w, h, w*h*bitsPerPixel, bits)
	}
	need := w * h * bitsPerPixel
	if bits != need {
		return Payload{}, extractErr(ErrCorruptHeader, "%d trailing bits after %dx%d pixel data", bits-need, w, h)
	}

	img := &PixelBuffer{Width: int(w), Height: int(h)}
	img.Pix = r.readBytes(int(w * h * Channels))
	return ImagePayload(img), nil
}

// parseImageHeader parses "<w>x<h>" where both are positive decimal integers.
func parseImageHeader(s string) (w, h int64, err error) {
	ws, hs, ok := strings.Cut(s, imageHeaderSep)
	if !ok {
		return 0, 0, fmt.Errorf("header %q has no %q separator", s, imageHeaderSep)
	}
	if w, err = parseDimension(ws); err != nil {
		return 0, 0, fmt.Errorf("header %q: width: %w", s, err)
	}
	if h, err = parseDimension(hs); err != nil {
		return 0, 0, fmt.Errorf("header %q: height: %w", s, err)
	}
	return w, h, nil
}

func parseDimension(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%q is not a decimal number", s)
		}
	}
	if s[0] == '0' {
		return 0, fmt.Errorf("%q has a leading zero", s)
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%d is not positive", v)
	}
	return v, nil
}
