package lattice

import "math"

// Apply returns f applied element-wise to xs. xs is not modified.
func Apply(xs []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

// MaxOf returns the element-wise maximum of a and b over their common length.
func MaxOf(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Max(a[i], b[i])
	}
	return out
}
