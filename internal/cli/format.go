package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"crr-pricer/internal/lattice"
)

// exerciseMark flags nodes where early exercise is optimal.
const exerciseMark = "*"

// RoundPrice rounds a price half away from zero to precision decimals.
func RoundPrice(price float64, precision int) decimal.Decimal {
	return decimal.NewFromFloat(price).Round(int32(precision))
}

// FormatPrice formats a price with a fixed number of decimals.
func FormatPrice(price float64, precision int) string {
	return RoundPrice(price, precision).StringFixed(int32(precision))
}

// FormatDiff formats a signed difference.
func FormatDiff(diff float64, precision int) string {
	d := RoundPrice(diff, precision)
	if d.Sign() > 0 {
		return "+" + d.StringFixed(int32(precision))
	}
	return d.StringFixed(int32(precision))
}

// FormatFactor formats a lattice factor or probability.
func FormatFactor(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

// FormatDuration formats a short duration in human-readable form.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// FormatMatrix renders the first maxRows rows of a triangle, one line per
// time step, columns right-aligned. Nodes set in marks get a trailing
// exerciseMark. A non-positive maxRows prints every row.
func FormatMatrix(tri lattice.Triangle, precision, maxRows int, marks [][]bool) []string {
	rows := tri.Rows()
	if maxRows > 0 && rows > maxRows {
		rows = maxRows
	}

	cells := make([][]string, rows)
	width := 0
	for t := 0; t < rows; t++ {
		cells[t] = make([]string, len(tri[t]))
		for k, v := range tri[t] {
			s := FormatPrice(v, precision)
			if t < len(marks) && k < len(marks[t]) && marks[t][k] {
				s += exerciseMark
			} else if marks != nil {
				s += " "
			}
			cells[t][k] = s
			if len(s) > width {
				width = len(s)
			}
		}
	}

	lines := make([]string, 0, rows+1)
	for t := 0; t < rows; t++ {
		parts := make([]string, len(cells[t]))
		for k, s := range cells[t] {
			parts[k] = PadLeft(s, width)
		}
		lines = append(lines, fmt.Sprintf("%4d  %s", t, strings.Join(parts, " ")))
	}
	if rows < tri.Rows() {
		lines = append(lines, fmt.Sprintf("      ... %d more rows", tri.Rows()-rows))
	}
	return lines
}

// CountMarked counts the true entries of a node mask.
func CountMarked(marks [][]bool) int {
	n := 0
	for _, row := range marks {
		for _, m := range row {
			if m {
				n++
			}
		}
	}
	return n
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
