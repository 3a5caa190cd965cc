package domain

import (
	"sort"
	"strings"
)

// ValidationError reports one message per offending input field.
// It matches ErrInvalidInput under errors.Is, plus the optional cause.
type ValidationError struct {
	Fields map[string]string
	cause  error
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records msg for field. The first message recorded for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

// WithCause attaches a sentinel that errors.Is should also match.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns e when it holds at least one field error, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(msgs, " ")
}

func (e *ValidationError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvalidInput, e.cause}
	}
	return []error{ErrInvalidInput}
}
