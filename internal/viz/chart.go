package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Downsample keeps at most n evenly spaced values of series.
func Downsample(series []float64, n int) []float64 {
	if n <= 0 || len(series) <= n {
		return series
	}
	if n == 1 {
		return series[:1]
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = series[i*(len(series)-1)/(n-1)]
	}
	return out
}

// Chart plots series as a width x height ASCII graph. Fewer than two values
// draw nothing.
func Chart(series []float64, width, height int, caption string) string {
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(Downsample(series, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
