package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/services/studio"
)

// maxBodyBytes caps request bodies; generated pages with inline markup stay well below it
const maxBodyBytes = 8 << 20

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteStudioError maps a pipeline error to its status code and writes it with its kind
func WriteStudioError(w http.ResponseWriter, err error) error {
	kind := studio.ErrorKind(err)
	if errors.Is(err, interfaces.ErrSlideNotFound) {
		kind = "slide_not_found"
	}
	return WriteJSON(w, StatusForKind(kind), map[string]string{
		"status": "error",
		"kind":   kind,
		"error":  err.Error(),
	})
}

// StatusForKind returns the HTTP status for a pipeline error kind
func StatusForKind(kind string) int {
	switch kind {
	case studio.KindProfileNotFound, studio.KindItemNotFound, "slide_not_found":
		return http.StatusNotFound
	case studio.KindValidation, studio.KindRenderInput:
		return http.StatusBadRequest
	case studio.KindTransport:
		return http.StatusBadGateway
	case studio.KindMalformedResponse, studio.KindSchemaViolation:
		return http.StatusUnprocessableEntity
	case studio.KindStale:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// DecodeJSON reads a size-limited JSON body into v
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// PathParam returns the URL-decoded path segment after prefix, up to the next slash.
// For "/api/slides/abc/items" with prefix "/api/slides/" it returns "abc".
func PathParam(r *http.Request, prefix string) string {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	decoded, err := url.PathUnescape(rest)
	if err != nil {
		return rest
	}
	return decoded
}
