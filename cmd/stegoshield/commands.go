package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xob0t/StegoShield/pkg/config"
	"github.com/xob0t/StegoShield/pkg/imageio"
	"github.com/xob0t/StegoShield/pkg/stego"
)

func runEncodeText(args []string) error {
	fs := flag.NewFlagSet("encode-text", flag.ExitOnError)

	var carrierPath, output, message, messageFile, preview string
	fs.StringVar(&carrierPath, "carrier", "", "Carrier image path")
	fs.StringVar(&output, "o", "", "Output file path (.png)")
	fs.StringVar(&output, "output", "", "Output file path (.png)")
	fs.StringVar(&message, "message", "", "Message to hide")
	fs.StringVar(&messageFile, "message-file", "", "Read the message from this file")
	fs.StringVar(&preview, "preview", "", "Write a side-by-side preview PNG")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if carrierPath == "" || output == "" {
		return fmt.Errorf("-carrier and -o are required")
	}
	if err := checkOutputs(output, preview); err != nil {
		return err
	}

	msg := []byte(message)
	if messageFile != "" {
		data, err := os.ReadFile(messageFile)
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		msg = data
	}

	carrier, err := imageio.DecodeFile(carrierPath)
	if err != nil {
		return err
	}
	enc, err := stego.Embed(carrier, stego.TextPayload(msg))
	if err != nil {
		return err
	}
	if err := imageio.WritePNG(output, enc); err != nil {
		return err
	}
	fmt.Printf("Hid %d bytes in %s\n", len(msg), output)
	return writePreview(preview, carrier, enc)
}

func runDecodeText(args []string) error {
	fs := flag.NewFlagSet("decode-text", flag.ExitOnError)

	var input, output string
	fs.StringVar(&input, "in", "", "Encoded image path")
	fs.StringVar(&output, "o", "", "Write the message to this file")
	fs.StringVar(&output, "output", "", "Write the message to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("-in is required")
	}

	buf, err := imageio.DecodeFile(input)
	if err != nil {
		return err
	}
	msg, err := stego.ExtractText(buf)
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Println(string(msg))
		return nil
	}
	if err := os.WriteFile(output, msg, 0644); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	fmt.Printf("Extracted %d bytes to %s\n", len(msg), output)
	return nil
}

func runEncodeImage(args []string) error {
	fs := flag.NewFlagSet("encode-image", flag.ExitOnError)

	var carrierPath, secretPath, output, preview string
	fs.StringVar(&carrierPath, "carrier", "", "Carrier image path")
	fs.StringVar(&secretPath, "secret", "", "Secret image path")
	fs.StringVar(&output, "o", "", "Output file path (.png)")
	fs.StringVar(&output, "output", "", "Output file path (.png)")
	fs.StringVar(&preview, "preview", "", "Write a side-by-side preview PNG")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if carrierPath == "" || secretPath == "" || output == "" {
		return fmt.Errorf("-carrier, -secret and -o are required")
	}
	if err := checkOutputs(output, preview); err != nil {
		return err
	}

	carrier, err := imageio.DecodeFile(carrierPath)
	if err != nil {
		return err
	}
	secret, err := imageio.DecodeFile(secretPath)
	if err != nil {
		return err
	}
	enc, err := stego.Embed(carrier, stego.ImagePayload(secret))
	if err != nil {
		return err
	}
	if err := imageio.WritePNG(output, enc); err != nil {
		return err
	}
	fmt.Printf("Hid %dx%d image in %s\n", secret.Width, secret.Height, output)
	return writePreview(preview, carrier, enc)
}

func runDecodeImage(args []string) error {
	fs := flag.NewFlagSet("decode-image", flag.ExitOnError)

	var input, output, preview string
	fs.StringVar(&input, "in", "", "Encoded image path")
	fs.StringVar(&output, "o", "", "Output file path (.png)")
	fs.StringVar(&output, "output", "", "Output file path (.png)")
	fs.StringVar(&preview, "preview", "", "Write a side-by-side preview PNG")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if input == "" || output == "" {
		return fmt.Errorf("-in and -o are required")
	}
	if err := checkOutputs(output, preview); err != nil {
		return err
	}

	buf, err := imageio.DecodeFile(input)
	if err != nil {
		return err
	}
	secret, err := stego.ExtractImage(buf)
	if err != nil {
		return err
	}
	if err := imageio.WritePNG(output, secret); err != nil {
		return err
	}
	fmt.Printf("Extracted %dx%d image to %s\n", secret.Width, secret.Height, output)
	return writePreview(preview, buf, secret)
}

func runCapacity(args []string) error {
	fs := flag.NewFlagSet("capacity", flag.ExitOnError)
	var carrierPath string
	fs.StringVar(&carrierPath, "carrier", "", "Carrier image path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if carrierPath == "" {
		return fmt.Errorf("-carrier is required")
	}

	carrier, err := imageio.DecodeFile(carrierPath)
	if err != nil {
		return err
	}
	fmt.Print(formatCapacity(carrier))
	return nil
}

func formatCapacity(carrier *stego.PixelBuffer) string {
	bits := carrier.Capacity()
	return fmt.Sprintf("Carrier:       %dx%d (%d pixels)\n"+
		"Capacity:      %d bits (%d bytes)\n"+
		"Max text:      %d bytes\n"+
		"Max secret:    %d pixels\n",
		carrier.Width, carrier.Height, carrier.Len(),
		bits, bits/8,
		stego.MaxTextBytes(bits),
		stego.MaxSecretPixels(bits))
}

func runCover(args []string) error {
	fs := flag.NewFlagSet("cover", flag.ExitOnError)

	var (
		output string
		cfg    imageio.CoverConfig
	)
	fs.StringVar(&output, "o", "", "Output file path (.png)")
	fs.StringVar(&output, "output", "", "Output file path (.png)")
	fs.IntVar(&cfg.Width, "w", 1280, "Width in pixels")
	fs.IntVar(&cfg.Width, "width", 1280, "Width in pixels")
	fs.IntVar(&cfg.Height, "h", 720, "Height in pixels")
	fs.IntVar(&cfg.Height, "height", 720, "Height in pixels")
	fs.StringVar(&cfg.Color, "color", "random", "Background color: hex or 'random'")
	fs.StringVar(&cfg.Caption, "caption", "", "Caption text")
	fs.StringVar(&cfg.CaptionColor, "caption-color", "", "Caption color (default: white)")
	fs.StringVar(&cfg.FontPath, "font", "", "TTF/OTF font file")
	fs.Float64Var(&cfg.FontSize, "font-size", 48, "Caption size in points")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if output == "" {
		return fmt.Errorf("output file is required (-o)")
	}
	if err := imageio.CheckOutputPath(output); err != nil {
		return err
	}

	fmt.Printf("Generating: %s\n", output)
	buf, err := imageio.NewCover(cfg)
	if err != nil {
		return err
	}
	if err := imageio.WritePNG(output, buf); err != nil {
		return err
	}
	fmt.Printf("Done: %s (%d bytes of text capacity)\n", output, stego.MaxTextBytes(buf.Capacity()))
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "config", "stegoshield.yaml", "Output path for sample config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := config.Save(out, config.Default()); err != nil {
		return err
	}
	fmt.Printf("Created: %s\n", out)
	fmt.Printf("Run: stegoshield serve -config %s\n", out)
	return nil
}

// checkOutputs rejects non-PNG output paths before any work is done.
func checkOutputs(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := imageio.CheckOutputPath(p); err != nil {
			return err
		}
	}
	return nil
}

func writePreview(path string, left, right *stego.PixelBuffer) error {
	if path == "" {
		return nil
	}
	if err := imageio.WritePNG(path, imageio.FromImage(imageio.Preview(0, left, right))); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	fmt.Printf("Preview: %s\n", path)
	return nil
}
