package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestFFT_Impulse(t *testing.T) {
	data := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	out, err := FFT(data)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, v)
		}
	}
}

func TestPowerSpectrum_Sine(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / float64(n))
	}
	ps, err := PowerSpectrum(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(ps))
	}
	for k, v := range ps {
		if k == 4 {
			if math.Abs(v-float64(n)/2) > 1e-9 {
				t.Errorf("peak magnitude %f, want %f", v, float64(n)/2)
			}
		} else if v > 1e-9 {
			t.Errorf("bin %d should be empty, got %g", k, v)
		}
	}
}

func TestFFT_MatchesDFT(t *testing.T) {
	data := []float64{3, -1, 4, 1, -5, 9, 2, -6, 5, 3, -5, 8, 9, -7, 9, 3}
	out, err := FFT(data)
	if err != nil {
		t.Fatal(err)
	}
	n := len(data)
	for k := 0; k < n; k++ {
		var want complex128
		for i, v := range data {
			want += complex(v, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(k*i)/float64(n)))
		}
		if cmplx.Abs(out[k]-want) > 1e-9 {
			t.Errorf("bin %d = %v, want %v", k, out[k], want)
		}
	}
}

func TestFFT_Length(t *testing.T) {
	for _, n := range []int{0, 3, 6, 100} {
		if _, err := FFT(make([]float64, n)); !errors.Is(err, ErrLength) {
			t.Errorf("n=%d: expected ErrLength, got %v", n, err)
		}
	}
	if _, err := PowerSpectrum(make([]float64, 12)); !errors.Is(err, ErrLength) {
		t.Errorf("expected ErrLength from PowerSpectrum, got %v", err)
	}
	if out, err := FFT([]float64{2.5}); err != nil || out[0] != 2.5 {
		t.Errorf("single sample: %v %v", out, err)
	}
}

func TestPow2Floor(t *testing.T) {
	tests := map[int]int{0: 0, 1: 1, 2: 2, 3: 2, 1023: 512, 1024: 1024, 1100: 1024}
	for n, want := range tests {
		if got := Pow2Floor(n); got != want {
			t.Errorf("Pow2Floor(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestDominantPeriod(t *testing.T) {
	tests := []struct {
		name   string
		period float64
		n      int
		tol    float64
	}{
		{"exact bin", 128, 1024, 1e-6},
		{"between bins", 133, 1100, 6},
	}

	for _, tt := range tests {
		data := make([]float64, tt.n)
		for i := range data {
			data[i] = 7000 + 500*math.Cos(2*math.Pi*float64(i)/tt.period)
		}
		got, err := DominantPeriod(data, 1.0)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if math.Abs(got-tt.period) > tt.tol {
			t.Errorf("%s: period %f, want %f", tt.name, got, tt.period)
		}
	}
}

func TestDominantPeriod_Errors(t *testing.T) {
	if _, err := DominantPeriod([]float64{1, 2, 3}, 1); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if _, err := DominantPeriod(make([]float64, 16), 0); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort for zero dt, got %v", err)
	}
	if _, err := DominantPeriod(make([]float64, 16), 1); err == nil {
		t.Error("expected error for a flat series")
	}
}
