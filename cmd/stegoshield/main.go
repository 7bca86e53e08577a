// StegoShield — hide text or images inside PNG carriers.
//
// Usage:
//
//	stegoshield encode-text  -carrier <img> -o <out.png> (-message <text> | -message-file <path>)
//	stegoshield decode-text  -in <img> [-o <file>]
//	stegoshield encode-image -carrier <img> -secret <img> -o <out.png> [-preview <p.png>]
//	stegoshield decode-image -in <img> -o <out.png> [-preview <p.png>]
//	stegoshield capacity     -carrier <img>
//	stegoshield cover        -o <out.png> [options]
//	stegoshield serve        [-config <path>] [-port 8080]
//	stegoshield init         [-config stegoshield.yaml]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/xob0t/StegoShield/clients/server"
	"github.com/xob0t/StegoShield/pkg/stego"
)

// Exit codes by failure kind.
const (
	exitError      = 1
	exitCapacity   = 2
	exitNotEncoded = 3
	exitCorrupt    = 4
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitError)
	}

	var err error
	switch os.Args[1] {
	case "encode-text":
		err = runEncodeText(os.Args[2:])
	case "decode-text":
		err = runDecodeText(os.Args[2:])
	case "encode-image":
		err = runEncodeImage(os.Args[2:])
	case "decode-image":
		err = runDecodeImage(os.Args[2:])
	case "capacity":
		err = runCapacity(os.Args[2:])
	case "cover":
		err = runCover(os.Args[2:])
	case "serve":
		err = server.RunServe(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(exitError)
	}
	if err != nil {
		fatal(err)
	}
}

// exitCode maps codec failure kinds to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, stego.ErrCapacityExceeded):
		return exitCapacity
	case errors.Is(err, stego.ErrTruncatedFrame), errors.Is(err, stego.ErrUnexpectedKind):
		return exitNotEncoded
	case errors.Is(err, stego.ErrInvalidEncoding),
		errors.Is(err, stego.ErrCorruptHeader),
		errors.Is(err, stego.ErrIncompletePixelData):
		return exitCorrupt
	default:
		return exitError
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCode(err))
}

func printUsage() {
	fmt.Print(`StegoShield — Hide text or images inside images (Pure Go)

USAGE:
    stegoshield encode-text  -carrier <img> -o <out.png> -message <text>
    stegoshield decode-text  -in <img> [-o <file>]
    stegoshield encode-image -carrier <img> -secret <img> -o <out.png>
    stegoshield decode-image -in <img> -o <out.png>
    stegoshield capacity     -carrier <img>
    stegoshield cover        -o <out.png> [options]
    stegoshield serve        [-config <path>] [-port 8080]
    stegoshield init         [-config stegoshield.yaml]

ENCODE TEXT:
    -carrier <path>        Carrier image (png, jpg, bmp, gif, webp, tiff, qoi)
    -message <text>        Message to hide
    -message-file <path>   Read the message from a file instead
    -o, -output <path>     Output file (must be .png)
    -preview <path>        Also write a side-by-side preview PNG

DECODE TEXT:
    -in <path>             Encoded PNG
    -o, -output <path>     Write the message to a file instead of stdout

ENCODE IMAGE:
    -carrier <path>        Carrier image
    -secret <path>         Image to hide (needs ~8 carrier pixels per secret pixel)
    -o, -output <path>     Output file (must be .png)
    -preview <path>        Also write a side-by-side preview PNG

DECODE IMAGE:
    -in <path>             Encoded PNG
    -o, -output <path>     Extracted image (must be .png)
    -preview <path>        Also write a side-by-side preview PNG

COVER:
    -o, -output <path>     Output file (must be .png)
    -w, -width <px>        Width in pixels (default: 1280)
    -h, -height <px>       Height in pixels (default: 720)
    -color <hex>           Background color or 'random' (default: random)
    -caption <text>        Optional caption
    -font <path>           TTF/OTF font for the caption (default: Go Regular)

EXIT CODES:
    1 error, 2 payload too large, 3 no hidden data found, 4 hidden data corrupt

NOTES:
    Encoded images are always written as PNG. Re-saving them as JPEG or any
    other lossy format destroys the hidden data.

EXAMPLES:
    stegoshield cover -o carrier.png -color "#1a1a2e" -caption "Holiday 2024"
    stegoshield encode-text -carrier carrier.png -o secret.png -message "meet at dawn"
    stegoshield decode-text -in secret.png
    stegoshield encode-image -carrier photo.jpg -secret logo.png -o out.png
    stegoshield capacity -carrier photo.jpg
    stegoshield serve -port 8080
`)
}
