package randgen

import (
	"errors"
	"fmt"
)

var (
	// ErrArgumentRange marks a precondition violation: a malformed range,
	// a non-finite bound, a count below one or a probability outside [0, 1].
	ErrArgumentRange = errors.New("randgen: argument out of range")

	// ErrReentered is raised when the entropy provider calls back into the
	// engine that is currently refilling.
	ErrReentered = errors.New("randgen: refill reentered")

	// ErrUnsupported is returned by operations that are deliberately not
	// implemented.
	ErrUnsupported = errors.New("randgen: unsupported operation")
)

func argError(op, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrArgumentRange, op, fmt.Sprintf(format, args...))
}
