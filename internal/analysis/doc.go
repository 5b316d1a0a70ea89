// Package analysis provides spectral tools for sampled orbit series.
//
//   - [FFT]: radix-2 discrete Fourier transform
//   - [PowerSpectrum]: magnitude spectrum of a real series
//   - [DominantPeriod]: strongest periodic component of a uniformly sampled series
//
// The orbital period of a satellite shows up as the dominant period of its
// geocentric radius:
//
//	period, err := analysis.DominantPeriod(radius, dtSeconds)
package analysis
