package loader

import (
	"errors"
	"fmt"
)

// Loader errors.
var (
	// ErrMissingFile is returned when the CSV for a year and round does not exist.
	ErrMissingFile = errors.New("missing election file")

	// ErrInvalidRow is returned when a data line cannot be turned into a Record.
	ErrInvalidRow = errors.New("invalid row")

	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnknownMode is returned for a format mode name that is not supported.
	ErrUnknownMode = errors.New("unknown format mode")

	// ErrUnknownEncoding is returned for an input encoding that is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// RowError locates an invalid cell in an input file.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

// Is makes errors.Is(err, ErrInvalidRow) hold.
func (e *RowError) Is(target error) bool {
	return target == ErrInvalidRow
}

func (e *RowError) Unwrap() error {
	return e.Err
}
