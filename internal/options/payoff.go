package options

import (
	"fmt"
	"math"
	"strings"

	"crr-pricer/internal/errors"
)

// Payoff maps an asset value to the value of the claim written on it.
// Implementations must be pure.
type Payoff func(float64) float64

// Call returns the payoff max(x-K, 0).
func Call(strike float64) Payoff {
	return func(x float64) float64 {
		return math.Max(x-strike, 0)
	}
}

// Put returns the payoff max(K-x, 0).
func Put(strike float64) Payoff {
	return func(x float64) float64 {
		return math.Max(strike-x, 0)
	}
}

// Kind names a standard payoff.
type Kind string

const (
	KindCall Kind = "CALL"
	KindPut  Kind = "PUT"
)

// ParseKind parses "call" or "put", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindCall:
		return KindCall, nil
	case KindPut:
		return KindPut, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownPayoff, "payoff %q", s)
}

// Payoff returns the payoff of kind k struck at strike.
func (k Kind) Payoff(strike float64) Payoff {
	switch k {
	case KindPut:
		return Put(strike)
	default:
		return Call(strike)
	}
}

func (k Kind) String() string {
	return string(k)
}

// Label formats a contract name such as "European CALL K=90".
func Label(style Style, kind Kind, strike float64) string {
	return fmt.Sprintf("%s %s K=%g", style, kind, strike)
}
