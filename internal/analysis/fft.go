package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
)

var ErrLength = errors.New("analysis: length is not a power of two")

// FFT returns the discrete Fourier transform of a real series whose length
// is a power of two. The transform is computed in place over a bit-reversed
// copy of data.
func FFT(data []float64) ([]complex128, error) {
	n := len(data)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrLength, n)
	}

	out := make([]complex128, n)
	shift := 64 - bits.Len(uint(n-1))
	for i, v := range data {
		j := i
		if n > 1 {
			j = int(bits.Reverse64(uint64(i)) >> shift)
		}
		out[j] = complex(v, 0)
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		for start := 0; start < n; start += size {
			w := complex(1, 0)
			for k := 0; k < half; k++ {
				a, b := out[start+k], w*out[start+k+half]
				out[start+k] = a + b
				out[start+k+half] = a - b
				w *= step
			}
		}
	}
	return out, nil
}

// PowerSpectrum returns the magnitudes of the first n/2 bins of FFT(data).
func PowerSpectrum(data []float64) ([]float64, error) {
	f, err := FFT(data)
	if err != nil {
		return nil, err
	}
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps, nil
}

// Pow2Floor returns the largest power of two not above n, or 0 when n < 1.
func Pow2Floor(n int) int {
	if n < 1 {
		return 0
	}
	return 1 << (bits.Len(uint(n)) - 1)
}
