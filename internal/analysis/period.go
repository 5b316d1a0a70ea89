package analysis

import (
	"errors"
	"math"
)

var ErrTooShort = errors.New("analysis: series too short")

// minSamples is the shortest series DominantPeriod accepts.
const minSamples = 8

// DominantPeriod returns the period (in the units of dt) of the strongest
// nonzero frequency of data. Only the leading power-of-two samples are used.
// The peak bin is refined with a parabola through its neighbours.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if len(data) < minSamples || !(dt > 0) {
		return 0, ErrTooShort
	}
	n := Pow2Floor(len(data))

	mean := 0.0
	for _, v := range data[:n] {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data[:n] {
		centered[i] = v - mean
	}

	ps, err := PowerSpectrum(centered)
	if err != nil {
		return 0, err
	}
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: flat series")
	}

	k := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if d := a - 2*b + c; d != 0 {
			k += 0.5 * (a - c) / d
		}
	}
	if k <= 0 || math.IsNaN(k) {
		k = float64(peak)
	}
	return float64(n) * dt / k, nil
}
