package lattice

// Triangle is a lower-triangular table indexed by [time step][number of downs].
// Row t holds exactly t+1 entries.
type Triangle [][]float64

// NewTriangle allocates a triangle with the given number of rows.
func NewTriangle(rows int) Triangle {
	if rows < 0 {
		rows = 0
	}
	tri := make(Triangle, rows)
	for t := range tri {
		tri[t] = make([]float64, t+1)
	}
	return tri
}

// Rows returns the number of time steps stored.
func (tri Triangle) Rows() int {
	return len(tri)
}

// At returns the entry at time step t after k downs.
func (tri Triangle) At(t, k int) float64 {
	return tri[t][k]
}

// Row returns a copy of row t.
func (tri Triangle) Row(t int) []float64 {
	out := make([]float64, len(tri[t]))
	copy(out, tri[t])
	return out
}

// Clone returns a deep copy.
func (tri Triangle) Clone() Triangle {
	if tri == nil {
		return nil
	}
	out := make(Triangle, len(tri))
	for t := range tri {
		out[t] = tri.Row(t)
	}
	return out
}
