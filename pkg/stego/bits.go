// bits.go — MSB-first bit packing for frames and LSB reading from channels.
package stego

// bitWriter accumulates bits MSB-first into a byte slice.
type bitWriter struct {
	buf []byte
	n   int // bits written
}

func newBitWriter(sizeBits int) *bitWriter {
	return &bitWriter{buf: make([]byte, 0, (sizeBits+7)/8)}
}

func (w *bitWriter) writeBit(bit uint8) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit&1 == 1 {
		w.buf[w.n/8] |= 0x80 >> (w.n % 8)
	}
	w.n++
}

// writeUint writes the low width bits of v, most significant first.
func (w *bitWriter) writeUint(v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		w.writeBit(uint8(v >> i))
	}
}

func (w *bitWriter) writeBytes(p []byte) {
	for _, b := range p {
		w.writeUint(uint64(b), 8)
	}
}

// bit returns the i-th bit written.
func (w *bitWriter) bit(i int) uint8 {
	return (w.buf[i/8] >> (7 - i%8)) & 1
}

// lsbReader reads the least-significant bit of consecutive channel values.
type lsbReader struct {
	pix []uint8
	pos int
}

func (r *lsbReader) remaining() int {
	return len(r.pix) - r.pos
}

// readUint reads width bits MSB-first. The caller checks remaining() first.
func (r *lsbReader) readUint(width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<1 | uint64(r.pix[r.pos]&1)
		r.pos++
	}
	return v
}

// readBytes reads n 8-bit groups.
func (r *lsbReader) readBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(r.readUint(8))
	}
	return out
}
