package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/sgp4check/internal/sgp4"
)

// ErrPropagation is wrapped by every PropagationError.
var ErrPropagation = errors.New("sim: propagation failed")

// PropagationError reports the first nonzero propagator code for a satellite.
type PropagationError struct {
	Satnum string
	Offset float64
	Code   int
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("satellite %s (t=%.4f): code %d: %s", e.Satnum, e.Offset, e.Code, sgp4.ErrorText(e.Code))
}

func (e *PropagationError) Unwrap() error { return ErrPropagation }
