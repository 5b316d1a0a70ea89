package sim

import (
	"github.com/san-kum/sgp4check/internal/schedule"
	"github.com/san-kum/sgp4check/internal/sgp4"
)

// Propagator produces the state of sat at tsince minutes from its epoch and
// the updated error code.
type Propagator interface {
	Propagate(sat *sgp4.Satellite, tsince float64) (sgp4.StateVector, int)
}

type PropagatorFunc func(sat *sgp4.Satellite, tsince float64) (sgp4.StateVector, int)

func (f PropagatorFunc) Propagate(sat *sgp4.Satellite, tsince float64) (sgp4.StateVector, int) {
	return f(sat, tsince)
}

// SGP4 is the default propagator.
var SGP4 Propagator = PropagatorFunc(sgp4.Propagate)

type Metric interface {
	Name() string
	Observe(sat *sgp4.Satellite, tsince float64, sv sgp4.StateVector)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(sat *sgp4.Satellite, tsince float64, sv sgp4.StateVector)
}

// Phase is the per-satellite driver state. Errored and Done are terminal.
type Phase int

const (
	Initialized Phase = iota
	Stepping
	Errored
	Done
)

func (p Phase) String() string {
	switch p {
	case Initialized:
		return "initialized"
	case Stepping:
		return "stepping"
	case Errored:
		return "errored"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

type Result struct {
	Satnum  string
	Grid    schedule.Grid
	Offsets []float64
	Phase   Phase
	Err     *PropagationError
	Metrics map[string]float64
}

// Samples is the number of successful samples delivered to observers.
func (r *Result) Samples() int { return len(r.Offsets) }
