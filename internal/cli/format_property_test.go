package cli

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"crr-pricer/internal/lattice"
)

// FormatPrice always prints exactly precision decimals and stays within half
// a unit of the last place of the input.
func TestPropertyFormatPriceRounding(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatPrice has fixed decimals and rounds to nearest", prop.ForAll(
		func(price float64, precision int) bool {
			formatted := FormatPrice(price, precision)

			parts := strings.Split(formatted, ".")
			if precision == 0 {
				if len(parts) != 1 {
					t.Logf("expected no decimal point for %v, got %s", price, formatted)
					return false
				}
			} else if len(parts) != 2 || len(parts[1]) != precision {
				t.Logf("expected %d decimals for %v, got %s", precision, price, formatted)
				return false
			}

			parsed, err := strconv.ParseFloat(formatted, 64)
			if err != nil {
				return false
			}
			// half a unit in the last place plus float slack
			tol := 0.5*math.Pow(10, -float64(precision)) + 1e-9
			if math.Abs(parsed-price) > tol {
				t.Logf("%v formatted as %s", price, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e6, 1e6),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}

func TestFormatPriceExamples(t *testing.T) {
	tests := []struct {
		price     float64
		precision int
		expected  string
	}{
		{22.99733, 4, "22.9973"},
		{0.125, 2, "0.13"},
		{-0.125, 2, "-0.13"},
		{10, 3, "10.000"},
		{2.5, 0, "3"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.price, tt.precision); got != tt.expected {
			t.Errorf("FormatPrice(%v, %d) = %s, want %s", tt.price, tt.precision, got, tt.expected)
		}
	}
}

func TestFormatDiffExamples(t *testing.T) {
	tests := []struct {
		diff     float64
		expected string
	}{
		{0.00894, "+0.0089"},
		{-0.0008, "-0.0008"},
		{0.00001, "0.0000"},
		{-0.00001, "0.0000"},
	}

	for _, tt := range tests {
		if got := FormatDiff(tt.diff, 4); got != tt.expected {
			t.Errorf("FormatDiff(%v) = %s, want %s", tt.diff, got, tt.expected)
		}
	}
}

func TestFormatMatrix(t *testing.T) {
	tri := lattice.Triangle{
		{10},
		{12, 8},
		{14.4, 9.6, 6.4},
	}

	lines := FormatMatrix(tri, 1, 0, nil)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "   0  10.0" {
		t.Errorf("row 0 = %q", lines[0])
	}
	if lines[2] != "   2  14.4  9.6  6.4" {
		t.Errorf("row 2 = %q", lines[2])
	}

	truncated := FormatMatrix(tri, 1, 2, nil)
	if len(truncated) != 3 || !strings.Contains(truncated[2], "1 more rows") {
		t.Errorf("truncated = %q", truncated)
	}

	marks := [][]bool{{false}, {false, false}, {false, true, true}}
	marked := FormatMatrix(tri, 1, 0, marks)
	if !strings.HasSuffix(marked[2], "6.4"+exerciseMark) {
		t.Errorf("row 2 = %q", marked[2])
	}
	if CountMarked(marks) != 2 {
		t.Errorf("CountMarked = %d, want 2", CountMarked(marks))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Microsecond, "500µs"},
		{1500 * time.Microsecond, "1.5ms"},
		{2 * time.Second, "2.00s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %s, want %s", tt.d, got, tt.expected)
		}
	}
}
