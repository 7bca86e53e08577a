package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/xob0t/StegoShield/pkg/imageio"
	"github.com/xob0t/StegoShield/pkg/stego"
)

// maxMemory is the multipart size kept in memory before spilling to disk.
const maxMemory = 10 << 20

// ── Upload helpers ──

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxUploadBytes)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return &requestError{status: http.StatusBadRequest, msg: "invalid multipart form", err: err}
	}
	return nil
}

// readImage decodes the uploaded file in field into a pixel buffer.
func (s *Server) readImage(r *http.Request, field string) (*stego.PixelBuffer, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, badRequest("%s image is required", field)
	}
	defer file.Close()

	if !imageio.AllowedInput(header.Filename, s.cfg.Limits.AllowedExtensions) {
		return nil, badRequest("invalid file type %q for %s image", filepath.Ext(header.Filename), field)
	}

	buf, _, err := imageio.DecodeLimited(file, s.cfg.Limits.MaxPixels)
	if err != nil {
		if errors.Is(err, imageio.ErrTooLarge) {
			return nil, err
		}
		return nil, &requestError{status: http.StatusBadRequest, msg: "could not read " + field + " image", err: err}
	}
	return buf, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return b.Bytes(), nil
}

func writePNG(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "image/png")
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	}
	w.Write(data)
}

func resultName(prefix string) string {
	return prefix + "_" + uuid.NewString() + ".png"
}

// ── Encode ──

// encodeText reads carrier and message and embeds the message.
func (s *Server) encodeText(w http.ResponseWriter, r *http.Request) (carrier, encoded *stego.PixelBuffer, err error) {
	if err := s.parseForm(w, r); err != nil {
		return nil, nil, err
	}
	if carrier, err = s.readImage(r, "carrier"); err != nil {
		return nil, nil, err
	}
	encoded, err = stego.Embed(carrier, stego.TextPayload([]byte(r.FormValue("message"))))
	if err != nil {
		return nil, nil, fmt.Errorf("encode text: %w", err)
	}
	return carrier, encoded, nil
}

// encodeImage reads carrier and secret and embeds the secret.
func (s *Server) encodeImage(w http.ResponseWriter, r *http.Request) (carrier, encoded *stego.PixelBuffer, err error) {
	if err := s.parseForm(w, r); err != nil {
		return nil, nil, err
	}
	if carrier, err = s.readImage(r, "carrier"); err != nil {
		return nil, nil, err
	}
	secret, err := s.readImage(r, "secret")
	if err != nil {
		return nil, nil, err
	}
	encoded, err = stego.Embed(carrier, stego.ImagePayload(secret))
	if err != nil {
		return nil, nil, fmt.Errorf("encode image: %w", err)
	}
	return carrier, encoded, nil
}

func (s *Server) handleEncodeText(w http.ResponseWriter, r *http.Request) {
	_, enc, err := s.encodeText(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := encodePNG(imageio.ToImage(enc))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, data, resultName("encoded_text"))
}

func (s *Server) handleEncodeImage(w http.ResponseWriter, r *http.Request) {
	_, enc, err := s.encodeImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := encodePNG(imageio.ToImage(enc))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, data, resultName("encoded_image"))
}

// ── Decode ──

func (s *Server) handleDecodeText(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	buf, err := s.readImage(r, "encoded")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	msg, err := stego.ExtractText(buf)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("decode text: %w", err))
		return
	}
	if !utf8.Valid(msg) {
		s.writeError(w, r, fmt.Errorf("decode text: %w", errNotUTF8))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": string(msg)})
}

func (s *Server) decodeImage(w http.ResponseWriter, r *http.Request) (encoded, secret *stego.PixelBuffer, err error) {
	if err := s.parseForm(w, r); err != nil {
		return nil, nil, err
	}
	if encoded, err = s.readImage(r, "encoded"); err != nil {
		return nil, nil, err
	}
	if secret, err = stego.ExtractImage(encoded); err != nil {
		return nil, nil, fmt.Errorf("decode image: %w", err)
	}
	return encoded, secret, nil
}

func (s *Server) handleDecodeImage(w http.ResponseWriter, r *http.Request) {
	_, secret, err := s.decodeImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := encodePNG(imageio.ToImage(secret))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writePNG(w, data, resultName("extracted_image"))
}

// ── Capacity ──

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	carrier, err := s.readImage(r, "carrier")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"width":             carrier.Width,
		"height":            carrier.Height,
		"capacity_bits":     carrier.Capacity(),
		"max_text_bytes":    stego.MaxTextBytes(carrier.Capacity()),
		"max_secret_pixels": stego.MaxSecretPixels(carrier.Capacity()),
	})
}

// ── Preview ──

// writePreview stores result as a downloadable PNG and responds with a
// side-by-side preview of left and right.
func (s *Server) writePreview(w http.ResponseWriter, r *http.Request, name string, result, left, right *stego.PixelBuffer) {
	data, err := encodePNG(imageio.ToImage(result))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	preview, err := encodePNG(imageio.Preview(s.cfg.Preview.MaxSide, left, right))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.results.add(name, data, "image/png")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Result-ID", id)
	w.Header().Set("X-Result-URL", "/api/results/"+id)
	writePNG(w, preview, "")
}

func (s *Server) handlePreviewText(w http.ResponseWriter, r *http.Request) {
	carrier, enc, err := s.encodeText(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePreview(w, r, resultName("encoded_text"), enc, carrier, enc)
}

func (s *Server) handlePreviewImage(w http.ResponseWriter, r *http.Request) {
	carrier, enc, err := s.encodeImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePreview(w, r, resultName("encoded_image"), enc, carrier, enc)
}

func (s *Server) handlePreviewDecodeImage(w http.ResponseWriter, r *http.Request) {
	enc, secret, err := s.decodeImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePreview(w, r, resultName("extracted_image"), secret, enc, secret)
}

// ── Results ──

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	res, ok := s.results.get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", res.Mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Name))
	w.Write(res.Data)
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.results.listAll())
}

func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.results.remove(id) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ── Help ──

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sections": helpSections})
}
