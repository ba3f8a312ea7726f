package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by validation errors that reference an unknown component id.
var ErrNotFound = errors.New("component not found")

// Rule names carried by ValidationError.
const (
	RuleIdentifier     = "identifier"
	RuleNotFound       = "not_found"
	RuleFieldType      = "field_type"
	RuleUIPortConflict = "ui_port_conflict"
	RuleUIField        = "ui_field"
	RuleReverseProxy   = "reverse_proxy"
	RuleName           = "name"
)

/**
 * A catalog rule rejected a mutation
 * @property {string} Rule - Which rule failed, one of the Rule* constants
 * @property {string} ID - Component the rule was evaluated for
 * @property {string} Field - Offending document field, when the rule is field-scoped
 * @property {string} Conflict - Id of the component the record clashes with, if any
 * @property {string} Message - Human readable reason, shown to users verbatim
 */
type ValidationError struct {
	Rule     string
	ID       string
	Field    string
	Conflict string
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrNotFound) hold for unknown-id failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrNotFound && e.Rule == RuleNotFound
}

func newValidationError(rule, id, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Rule: rule, ID: id, Message: fmt.Sprintf(format, args...)}
}

// LoadError reports a backing document that exists but cannot be used.
type LoadError struct {
	Path   string
	Offset int64
	Err    error
}

func (e *LoadError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("error loading file '%s' at offset %d: %v", e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("error loading file '%s': %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// PersistError reports a failed write of the backing document.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("error saving file '%s': %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistError reports whether err is (or wraps) a PersistError.
func IsPersistError(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
