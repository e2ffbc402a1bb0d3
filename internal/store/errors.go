package store

import (
	"errors"
	"fmt"
)

// Store errors
var (
	ErrInvalidTarget = errors.New("not a valid store file")
	ErrFormat        = errors.New("malformed store")
	ErrIO            = errors.New("store i/o failed")
)

// FormatError reports a malformed store file. Record is the zero-based index
// of the offending record, or -1 when the document itself is unreadable.
type FormatError struct {
	Path   string
	Record int
	Err    error
}

func (e *FormatError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("%s %s: %v", ErrFormat, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: record %d: %v", ErrFormat, e.Path, e.Record, e.Err)
}

// Unwrap exposes both ErrFormat and the underlying cause to errors.Is/As.
func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}

func formatError(path string, record int, err error) error {
	return &FormatError{Path: path, Record: record, Err: err}
}

func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIO, op, path, err)
}
