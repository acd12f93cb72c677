// Package options values European and American claims by backward induction on
// a binomial lattice.
package options

import (
	"strings"

	"crr-pricer/internal/errors"
	"crr-pricer/internal/lattice"
)

// Valuer produces the value of an option at every node of its lattice.
type Valuer interface {
	// OptionValues returns the option value matrix; [0][0] is the price.
	OptionValues() lattice.Triangle
	// Price returns the time-zero value.
	Price() float64
}

// Style is the exercise style of an option.
type Style string

const (
	StyleEuropean Style = "European"
	StyleAmerican Style = "American"
)

// ParseStyle parses "european" or "american", case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "european", "eu":
		return StyleEuropean, nil
	case "american", "us":
		return StyleAmerican, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownStyle, "style %q", s)
}

func (s Style) String() string {
	return string(s)
}

// New builds a valuer of the given style.
func New(style Style, payoff Payoff, optionSteps, stockSteps int, model *lattice.Model) (Valuer, error) {
	switch style {
	case StyleEuropean:
		o, err := NewEuropean(payoff, optionSteps, stockSteps, model)
		if err != nil {
			return nil, err
		}
		return o, nil
	case StyleAmerican:
		o, err := NewAmerican(payoff, optionSteps, stockSteps, model)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, errors.Wrapf(errors.ErrUnknownStyle, "style %q", style)
}

// checkSteps validates the option discretization against the lattice.
func checkSteps(optionSteps, stockSteps int) error {
	if optionSteps < 1 {
		return errors.NewValidationError("option_steps", optionSteps,
			"option needs at least one step", errors.ErrInvalidSteps)
	}
	if optionSteps > stockSteps {
		return errors.NewValidationError("option_steps", optionSteps,
			"the time discretization of the lattice is coarser than the option's", errors.ErrStepsExceedLattice)
	}
	return nil
}
