package figure

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported figure format")
	ErrEmptyFigure       = errors.New("figure data is empty")
	ErrFigureTooLarge    = errors.New("figure exceeds the size limit")
	ErrEmptyHistory      = errors.New("no figure is currently selected")
	ErrIndexOutOfRange   = errors.New("figure index out of range")
)

// WriteError reports a figure that could not be written to its destination.
// The destination is left untouched when a WriteError is returned.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write figure to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
