package engine

import "errors"

var (
	// ErrDisplayUnavailable means the X server could not be reached.
	ErrDisplayUnavailable = errors.New("display unavailable")
	// ErrNoTrueColorVisual means no TrueColor visual exists at the screen
	// depth, so no window can ever be created.
	ErrNoTrueColorVisual    = errors.New("no TrueColor visual")
	ErrWindowCreationFailed = errors.New("window creation failed")
	ErrImageCreationFailed  = errors.New("image creation failed")
	// ErrClosed is returned by operations on a closed Connection.
	ErrClosed = errors.New("connection closed")
)
