package tape

import (
	"errors"
	"fmt"
)

var (
	ErrWrongMode = errors.New("tape is in the wrong mode")
	ErrWriteDNE  = errors.New("cannot write a DNE record")
)

// ModeError is returned when an operation needs a mode the tape is not in.
type ModeError struct {
	Op   string
	Want Mode
	Got  Mode
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("cannot %s: tape is not in %s mode (mode: %s)", e.Op, e.Want, e.Got)
}

func (e *ModeError) Unwrap() error {
	return ErrWrongMode
}
