package streamline

import (
	"errors"
	"fmt"
)

func validateRoute(method string, handler HandlerFunc) {
	switch {
	case len(method) == 0:
		panic("method must not be empty")
	case handler == nil:
		panic("handler must not be nil")
	}
}

// recoveredError turns a recovered panic value into an error wrapping ErrPanic.
func recoveredError(rcv interface{}) error {
	if err, ok := rcv.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanic, err)
	}
	return fmt.Errorf("%w: %v", ErrPanic, rcv)
}

// ErrPanic is wrapped by the error logged when a handler panics.
var ErrPanic = errors.New("handler panicked")
