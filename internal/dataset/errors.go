package dataset

import "fmt"

// IOError reports a source that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports a structurally malformed data row. Row is the
// zero-based index of the row among the source's data rows (the header does
// not count).
type FormatError struct {
	Row int
	Msg string
}

func (e *FormatError) Error() string { return fmt.Sprintf("malformed row %d: %s", e.Row, e.Msg) }

// TypeMismatchError describes a non-missing value that failed its column's
// numeric or datetime parse. Mismatches are never fatal: loaders record the
// value as missing and count it on the column.
type TypeMismatchError struct {
	Column string
	Row    int
	Value  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %s, row %d: %q does not match the column type", e.Column, e.Row, e.Value)
}
