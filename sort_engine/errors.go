package polyphase

import (
	"errors"
	"fmt"
)

var ErrInvariantViolation = errors.New("polyphase invariant violated")

// InvariantViolation reports a state the algorithm should never reach, such
// as a corrupted scratch tape. The sort is aborted and the output file must
// not be trusted.
type InvariantViolation struct {
	Phase  int
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%v (phase %d): %s", ErrInvariantViolation, e.Phase, e.Reason)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}

func violation(phase int, format string, args ...any) error {
	return &InvariantViolation{Phase: phase, Reason: fmt.Sprintf(format, args...)}
}
