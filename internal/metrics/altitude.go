package metrics

import (
	"math"

	"github.com/san-kum/sgp4check/internal/sgp4"
)

// MinAltitude tracks the lowest geocentric radius above a spherical earth.
type MinAltitude struct {
	name     string
	radiusKm float64
	min      float64
	samples  int
}

func NewMinAltitude(radiusKm float64) *MinAltitude {
	return &MinAltitude{
		name:     "min_altitude_km",
		radiusKm: radiusKm,
	}
}

func (m *MinAltitude) Name() string {
	return m.name
}

func (m *MinAltitude) Observe(sat *sgp4.Satellite, tsince float64, sv sgp4.StateVector) {
	alt := math.Sqrt(sv.R[0]*sv.R[0]+sv.R[1]*sv.R[1]+sv.R[2]*sv.R[2]) - m.radiusKm
	if m.samples == 0 || alt < m.min {
		m.min = alt
	}
	m.samples++
}

func (m *MinAltitude) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.min
}

func (m *MinAltitude) Reset() {
	m.min = 0
	m.samples = 0
}
