package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"caja/internal/middleware/trace"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes the request body into v, writing a 400 on failure. It
// reports whether decoding succeeded.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func logError(r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Request failed",
		"request_id", trace.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
}

// validDate accepts ISO dates (YYYY-MM-DD) only, keeping snapshot paths
// canonical.
func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
