package options

import (
	"sync"

	"crr-pricer/internal/lattice"
)

// European values a claim that can only be exercised at maturity.
type European struct {
	payoff Payoff
	steps  int
	model  *lattice.Model

	once   sync.Once
	values lattice.Triangle
}

// NewEuropean creates a European option maturing at step optionSteps-1 of model.
// It fails when optionSteps exceeds stockSteps, the lattice discretization.
func NewEuropean(payoff Payoff, optionSteps, stockSteps int, model *lattice.Model) (*European, error) {
	if err := checkSteps(optionSteps, stockSteps); err != nil {
		return nil, err
	}
	if err := checkSteps(optionSteps, model.Params().Steps); err != nil {
		return nil, err
	}
	return &European{
		payoff: payoff,
		steps:  optionSteps,
		model:  model,
	}, nil
}

// OptionValues returns the discounted expected payoff at every node.
func (o *European) OptionValues() lattice.Triangle {
	o.once.Do(o.computeValues)
	return o.values.Clone()
}

// Price returns the time-zero value.
func (o *European) Price() float64 {
	o.once.Do(o.computeValues)
	return o.values[0][0]
}

func (o *European) computeValues() {
	last := o.steps - 1
	values := make(lattice.Triangle, o.steps)
	values[last] = o.model.TransformedValuesAt(last, o.payoff)
	for t := last - 1; t >= 0; t-- {
		values[t] = o.model.ConditionalExpectation(values[t+1], t)
	}
	o.values = values
}
