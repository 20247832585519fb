package buffer

import "errors"

// Command-level errors. They are reported to the user and never end the
// session. Callers attach detail with fmt.Errorf("%w: ...") and match with
// errors.Is.
var (
	ErrInvalidCommand      = errors.New("invalid command")
	ErrInvalidLineNumber   = errors.New("invalid line number")
	ErrInvalidColumnNumber = errors.New("invalid column number")
	ErrInvalidWordNumber   = errors.New("invalid word number")
	ErrInvalidWordOp       = errors.New("invalid word operation")
	ErrEmptyText           = errors.New("text must not be empty")
	ErrFileModified        = errors.New("file modified on disk")
)

// ErrLineTooLong is returned when a line exceeds constants.MaxLineLength,
// either while loading or as the result of an edit.
var ErrLineTooLong = errors.New("line too long")
