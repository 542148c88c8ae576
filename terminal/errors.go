package terminal

import (
	"errors"
	"fmt"
)

// Sentinel errors for comparison with errors.Is
var (
	ErrTerminalUnavailable = errors.New("terminal unavailable")
	ErrSizeUnavailable     = errors.New("terminal size unavailable")
	ErrInvalidState        = errors.New("invalid session state")
	ErrIO                  = errors.New("terminal i/o error")
	ErrDimensionMismatch   = errors.New("buffer dimensions differ from terminal")
	ErrOutOfBounds         = errors.New("cell position out of bounds")
)

// WrapIO tags an underlying I/O failure with the operation that caused it
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// WrapUnavailable tags a terminal acquisition failure
func WrapUnavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTerminalUnavailable, err)
}

func wrapState(op string, state State) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidState, op, state)
}
