package metrics

import (
	"math"

	"github.com/san-kum/sgp4check/internal/sgp4"
)

// SpecificEnergy returns v^2/2 - mu/r in km^2/s^2.
func SpecificEnergy(sv sgp4.StateVector, mu float64) float64 {
	r := math.Sqrt(sv.R[0]*sv.R[0] + sv.R[1]*sv.R[1] + sv.R[2]*sv.R[2])
	v2 := sv.V[0]*sv.V[0] + sv.V[1]*sv.V[1] + sv.V[2]*sv.V[2]
	if r == 0 {
		return 0
	}
	return 0.5*v2 - mu/r
}

// EnergyDrift is the largest relative change of specific orbital energy
// from the first sample. Drag and third body terms make it nonzero; a large
// value on a short grid points at a bad element set.
type EnergyDrift struct {
	name          string
	mu            float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(mu float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		mu:   mu,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(sat *sgp4.Satellite, tsince float64, sv sgp4.StateVector) {
	energy := SpecificEnergy(sv, e.mu)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
