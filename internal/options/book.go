package options

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"crr-pricer/internal/errors"
	"crr-pricer/internal/lattice"
)

// Contract describes one option to price against a shared lattice.
type Contract struct {
	Name   string
	Style  Style
	Payoff Payoff
	Steps  int
}

// Quote is the result of pricing a Contract.
type Quote struct {
	Name   string
	Style  Style
	Price  float64
	Values lattice.Triangle

	// ExerciseNodes marks optimal early exercise; nil for European quotes.
	ExerciseNodes [][]bool

	// Elapsed is the time spent valuing this contract alone.
	Elapsed time.Duration
}

// PriceBook prices contracts concurrently on one model. Quotes are returned in
// the order of contracts. Every contract is validated before any is valued.
func PriceBook(ctx context.Context, model *lattice.Model, stockSteps int, contracts []Contract) ([]Quote, error) {
	valuers := make([]Valuer, len(contracts))
	for i, c := range contracts {
		v, err := New(c.Style, c.Payoff, c.Steps, stockSteps, model)
		if err != nil {
			return nil, errors.Wrapf(err, "contract %q", c.Name)
		}
		valuers[i] = v
	}

	quotes := make([]Quote, len(contracts))
	g, ctx := errgroup.WithContext(ctx)
	for i := range contracts {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			values := valuers[i].OptionValues()
			quotes[i] = Quote{
				Name:   contracts[i].Name,
				Style:  contracts[i].Style,
				Price:  values[0][0],
				Values: values,
			}
			if a, ok := valuers[i].(*American); ok {
				quotes[i].ExerciseNodes = a.ExerciseNodes()
			}
			quotes[i].Elapsed = time.Since(start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}
