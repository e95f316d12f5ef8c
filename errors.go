package bramble

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState reports an operation attempted in a state that forbids
	// it, such as running a second scene or adding an already parented node.
	ErrInvalidState = errors.New("invalid state")

	// ErrMissingTarget reports an action scheduled without a target node.
	ErrMissingTarget = errors.New("action has no target")
)

// invalidState returns an error wrapping ErrInvalidState.
func invalidState(format string, args ...any) error {
	return fmt.Errorf("bramble: "+format+": %w", append(args, ErrInvalidState)...)
}
