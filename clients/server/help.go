// help.go — Help text served to clients.
package server

type helpSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

var helpSections = []helpSection{
	{
		Title: "What StegoShield Does",
		Text: "StegoShield hides secret data inside an ordinary image. Unlike encryption, which scrambles a " +
			"message, steganography hides the fact that a message exists at all.\n\n" +
			"Your secret (text or another image) is written into the lowest bit of each red, green and blue " +
			"value of a carrier image. Every colour value changes by at most one step, which is invisible to " +
			"the naked eye.",
	},
	{
		Title: "How to Use",
		Text: "Encode Text: upload a carrier image and type a message. You receive a PNG holding the message.\n" +
			"Decode Text: upload an encoded PNG to read the message back.\n" +
			"Encode Image: upload a carrier and a smaller secret image. You receive a PNG holding the secret.\n" +
			"Decode Image: upload an encoded PNG to recover the hidden image.\n" +
			"Preview: the preview endpoints return the original and the result side by side; the encoded " +
			"image itself can then be downloaded from the returned result URL.",
	},
	{
		Title: "Important Rules & Restrictions",
		Text: "Output format: encoded images are always PNG. Saving them as JPEG or any other lossy format " +
			"destroys the hidden data.\n\n" +
			"Capacity: each carrier pixel holds 3 bits. Text is base64-encoded first, so every 3 bytes of " +
			"text cost 32 bits, plus 33 bits of framing.\n\n" +
			"Secret images: each secret pixel needs 24 bits, so the carrier needs at least 8 pixels per secret " +
			"pixel, plus a little room for the size header. Use the capacity endpoint to check a carrier.\n\n" +
			"Decoding failures usually mean the image was never encoded with StegoShield, was re-saved in a " +
			"lossy format after encoding, or is corrupted.",
	},
}
