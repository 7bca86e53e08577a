// errors.go — Mapping of codec and request errors to HTTP responses.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/xob0t/StegoShield/pkg/imageio"
	"github.com/xob0t/StegoShield/pkg/stego"
)

// errNotUTF8 is returned by decode-text when the hidden bytes cannot be
// carried in a JSON string without being altered.
var errNotUTF8 = errors.New("hidden text is not valid UTF-8; use the CLI decode-text -o to recover raw bytes")

// requestError is a client mistake detected before the codec runs.
type requestError struct {
	status int
	msg    string
	err    error
}

func (e *requestError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// errorStatus picks the HTTP status and error kind reported for err.
func errorStatus(err error) (int, string) {
	var re *requestError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe),
		errors.Is(err, imageio.ErrTooLarge),
		errors.Is(err, errResultTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.As(err, &re):
		return re.status, "bad_request"
	case errors.Is(err, errNotUTF8):
		return http.StatusUnprocessableEntity, "invalid_encoding"
	}

	switch kind := stego.KindOf(err); kind {
	case "":
		return http.StatusInternalServerError, "internal"
	case "capacity_exceeded":
		return http.StatusRequestEntityTooLarge, kind
	case "empty_payload", "empty_carrier":
		return http.StatusBadRequest, kind
	default:
		// The upload was well-formed but holds no valid StegoShield frame.
		return http.StatusUnprocessableEntity, kind
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("stegoshield: request failed", "path", r.URL.Path, "err", err)
	} else {
		s.log.Debug("stegoshield: request rejected", "path", r.URL.Path, "kind", kind, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
