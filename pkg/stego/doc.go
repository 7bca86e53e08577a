// Package stego hides text or image payloads in the least-significant bits
// of an RGB pixel buffer and recovers them.
//
// Every payload is written as a self-describing frame, most-significant bit
// first, one bit per channel value in row-major R, G, B order:
//
//	[32 bits: body length in bits]
//	[1 bit: type tag]                       0 = text, 1 = image
//	text:  [8 bits per base64 character]
//	image: [16 bits: header length in bits]
//	       [header "<w>x<h>", 8 bits per character]
//	       [24 bits per secret pixel, R then G then B]
//
// The codec works on an already-decoded PixelBuffer. Reading and writing
// container formats lives in package imageio; the only lossless output it
// produces is PNG, since any lossy re-encoding destroys the hidden bits.
//
// Embed and Extract are pure functions. They never log, retry or return
// partial results: every structural problem is reported as an *Error whose
// sentinel can be matched with errors.Is.
package stego
