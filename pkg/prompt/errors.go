package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompleteInput matches *IncompleteInputError with errors.Is.
	ErrIncompleteInput = errors.New("incomplete input")
	// ErrInvalidValue matches *InvalidValueError with errors.Is.
	ErrInvalidValue = errors.New("invalid value")
)

// IncompleteInputError names the required fields that were absent or empty,
// in the category's declared field order.
type IncompleteInputError struct {
	Category string
	Missing  []string
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("prompt: category %q: missing required fields: %s", e.Category, strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrIncompleteInput.
func (e *IncompleteInputError) Is(target error) bool { return target == ErrIncompleteInput }

// InvalidValueError reports a value of the wrong type, outside the allowed
// options, or outside the numeric range of its field.
type InvalidValueError struct {
	Category string
	Field    string
	Reason   string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("prompt: category %q: field %q: %s", e.Category, e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }
