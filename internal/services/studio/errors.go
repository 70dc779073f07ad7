package studio

import (
	"errors"
	"fmt"

	"github.com/ternarybob/magstudio/internal/models"
)

// Error kinds reported to callers and recorded in audits
const (
	KindProfileNotFound   = "profile_not_found"
	KindValidation        = "validation"
	KindTransport         = "transport"
	KindMalformedResponse = "malformed_response"
	KindSchemaViolation   = "schema_violation"
	KindRenderInput       = "render_input"
	KindStale             = "stale"
	KindItemNotFound      = "item_not_found"
	KindInternal          = "internal"
)

// ProfileNotFoundError is returned for tags outside the closed profile set
type ProfileNotFoundError struct {
	Profile models.Profile
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("profile not found: %q", string(e.Profile))
}

func (e *ProfileNotFoundError) Kind() string { return KindProfileNotFound }

// ValidationError wraps request validation failures
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid request: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }
func (e *ValidationError) Kind() string  { return KindValidation }

// TransportError means the generative service could not be reached or answered with a failure
type TransportError struct {
	Model string
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("generative service call failed (model %s): %v", e.Model, e.Err)
}
func (e *TransportError) Unwrap() error { return e.Err }
func (e *TransportError) Kind() string  { return KindTransport }

// MalformedResponseError means the service answered with text that is not valid JSON
type MalformedResponseError struct {
	Snippet string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v (starts with %q)", e.Err, e.Snippet)
}
func (e *MalformedResponseError) Unwrap() error { return e.Err }
func (e *MalformedResponseError) Kind() string  { return KindMalformedResponse }

// SchemaViolationError means valid JSON that misses a required field or has the wrong shape
type SchemaViolationError struct {
	Path   string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	path := e.Path
	if path == "" {
		path = "$"
	}
	return fmt.Sprintf("schema violation at %s: %s", path, e.Reason)
}
func (e *SchemaViolationError) Kind() string { return KindSchemaViolation }

// RenderInputError means ListicleData that cannot be rendered, such as duplicate item ids
type RenderInputError struct {
	Reason string
}

func (e *RenderInputError) Error() string { return "invalid listicle data: " + e.Reason }
func (e *RenderInputError) Kind() string  { return KindRenderInput }

// StaleRequestError is returned when a newer submission superseded this one in the same session
type StaleRequestError struct {
	SessionID string
	Token     uint64
}

func (e *StaleRequestError) Error() string {
	return fmt.Sprintf("request %d of session %s was superseded by a newer submission", e.Token, e.SessionID)
}
func (e *StaleRequestError) Kind() string { return KindStale }

// ErrNotListShaped is returned by structural edits on results without listicle data
var ErrNotListShaped = errors.New("result has no listicle data")

// ErrItemNotFound is returned by item edits that name an unknown item id
var ErrItemNotFound = errors.New("listicle item not found")

// ErrorKind returns the kind of a pipeline error, or KindInternal for anything else
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var kinded interface{ Kind() string }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	if errors.Is(err, ErrNotListShaped) {
		return KindRenderInput
	}
	if errors.Is(err, ErrItemNotFound) {
		return KindItemNotFound
	}
	return KindInternal
}
