// payload.go — Text and image payload variants.
package stego

// Kind identifies the payload variant carried by a frame.
type Kind uint8

const (
	KindText  Kind = 0
	KindImage Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Payload is the secret carried by a frame. Exactly one of Text or Image is
// meaningful, selected by Kind.
type Payload struct {
	Kind  Kind
	Text  []byte
	Image *PixelBuffer
}

// TextPayload wraps raw bytes (UTF-8 text in practice).
func TextPayload(b []byte) Payload {
	return Payload{Kind: KindText, Text: b}
}

// ImagePayload wraps a secret RGB image. Its dimensions are carried in the
// frame and need not match the carrier's.
func ImagePayload(img *PixelBuffer) Payload {
	return Payload{Kind: KindImage, Image: img}
}

// Equal reports whether two payloads carry the same variant and content.
func (p Payload) Equal(o Payload) bool {
	if p.Kind != o.Kind {
		return false
	}
	if p.Kind == KindImage {
		return p.Image.Equal(o.Image)
	}
	return string(p.Text) == string(o.Text)
}
