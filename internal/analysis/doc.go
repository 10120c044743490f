// Package analysis characterises a torque series in the frequency domain.
//
// A run samples exactly one gait cycle, so bin k of the discrete Fourier
// transform is the k-th harmonic of the stride frequency:
//
//	harmonics := analysis.Spectrum(result.Torques(), result.Timing.Cycle)
//	h := analysis.Dominant(harmonics)
//	// h.Order oscillations per stride, h.Amplitude in N*m
package analysis
