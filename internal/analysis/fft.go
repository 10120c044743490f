package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Harmonic is one component of a periodic series sampled over exactly one
// period. Order k oscillates k times per cycle.
type Harmonic struct {
	Order     int     `json:"order"`
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
}

// Spectrum decomposes one cycle of series into harmonics of 1/cycle. Order 0
// carries the mean; other amplitudes are peak values.
func Spectrum(series []float64, cycle float64) []Harmonic {
	n := len(series)
	if n == 0 {
		return nil
	}
	coeff := fourier.NewFFT(n).Coefficients(nil, series)

	out := make([]Harmonic, n/2+1)
	for k := range out {
		amp := cmplx.Abs(coeff[k]) / float64(n)
		if k > 0 && 2*k != n {
			amp *= 2
		}
		out[k] = Harmonic{Order: k, Frequency: float64(k) / cycle, Amplitude: amp}
	}
	return out
}

// Dominant is the strongest non-constant harmonic.
func Dominant(harmonics []Harmonic) Harmonic {
	var best Harmonic
	for _, h := range harmonics[min(1, len(harmonics)):] {
		if h.Amplitude > best.Amplitude {
			best = h
		}
	}
	return best
}
