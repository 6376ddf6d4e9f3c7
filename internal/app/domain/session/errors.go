package session

import (
	"errors"
	"sort"
	"strings"

	core "github.com/neetprep/service_layer/internal/app/core/service"
)

// Messages used in LookupError.Error.
const (
	MsgInvalidRequest = "Invalid request"
	MsgNotFound       = "Session question not found"
)

// LookupError is the error payload of a failed lookup. Details is keyed by
// request field and is only set for validation failures.
type LookupError struct {
	Message string              `json:"error"`
	Details map[string][]string `json:"details,omitempty"`
}

func (e *LookupError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Details))
	for field := range e.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Details[field], ", "))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap maps the payload onto the shared error kinds.
func (e *LookupError) Unwrap() error {
	if len(e.Details) > 0 {
		return core.ErrInvalidInput
	}
	return core.ErrNotFound
}

// NotFound returns the error for a pair with no join row.
func NotFound() *LookupError {
	return &LookupError{Message: MsgNotFound}
}

// Validate checks that both ids are positive. It returns nil for valid params.
func (p LookupParams) Validate() *LookupError {
	details := map[string][]string{}
	if p.SessionID <= 0 {
		details["session_id"] = append(details["session_id"], "must be a positive integer")
	}
	if p.QuestionID <= 0 {
		details["question_id"] = append(details["question_id"], "must be a positive integer")
	}
	if len(details) == 0 {
		return nil
	}
	return &LookupError{Message: MsgInvalidRequest, Details: details}
}

// AsLookupError extracts a *LookupError from err's chain.
func AsLookupError(err error) (*LookupError, bool) {
	var le *LookupError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
