package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrUnprocessable       = errors.New("unprocessable")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ValidationError carries one message per invalid field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// unprocessable wraps ErrUnprocessable with a user facing message.
func unprocessable(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnprocessable, msg)
}

// PublicMessage strips the sentinel prefix added by unprocessable.
func PublicMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrUnprocessable, ErrUpstreamUnavailable} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}
