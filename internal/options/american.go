package options

import (
	"sync"

	"crr-pricer/internal/lattice"
)

// American values a claim that can be exercised at any step up to maturity.
// Its value is the Snell envelope of the payoff process.
type American struct {
	payoff Payoff
	steps  int
	model  *lattice.Model

	once     sync.Once
	exercise lattice.Triangle
	envelope lattice.Triangle
}

// NewAmerican creates an American option maturing at step optionSteps-1 of model.
// It fails when optionSteps exceeds stockSteps, the lattice discretization.
func NewAmerican(payoff Payoff, optionSteps, stockSteps int, model *lattice.Model) (*American, error) {
	if err := checkSteps(optionSteps, stockSteps); err != nil {
		return nil, err
	}
	if err := checkSteps(optionSteps, model.Params().Steps); err != nil {
		return nil, err
	}
	return &American{
		payoff: payoff,
		steps:  optionSteps,
		model:  model,
	}, nil
}

// OptionValues returns the Snell envelope at every node.
func (o *American) OptionValues() lattice.Triangle {
	o.once.Do(o.computeValues)
	return o.envelope.Clone()
}

// ExerciseValues returns the immediate exercise value at every node.
func (o *American) ExerciseValues() lattice.Triangle {
	o.once.Do(o.computeValues)
	return o.exercise.Clone()
}

// Price returns the time-zero value.
func (o *American) Price() float64 {
	o.once.Do(o.computeValues)
	return o.envelope[0][0]
}

// ExerciseNodes reports, per node, whether immediate exercise is optimal and
// strictly worth something.
func (o *American) ExerciseNodes() [][]bool {
	o.once.Do(o.computeValues)
	nodes := make([][]bool, len(o.envelope))
	for t := range o.envelope {
		nodes[t] = make([]bool, len(o.envelope[t]))
		for k := range o.envelope[t] {
			nodes[t][k] = o.exercise[t][k] > 0 && o.exercise[t][k] >= o.envelope[t][k]
		}
	}
	return nodes
}

func (o *American) computeValues() {
	last := o.steps - 1
	exercise := make(lattice.Triangle, o.steps)
	envelope := make(lattice.Triangle, o.steps)

	// at maturity the holder can only exercise
	exercise[last] = o.model.TransformedValuesAt(last, o.payoff)
	envelope[last] = o.model.TransformedValuesAt(last, o.payoff)

	for t := last - 1; t >= 0; t-- {
		exercise[t] = o.model.TransformedValuesAt(t, o.payoff)
		continuation := o.model.ConditionalExpectation(envelope[t+1], t)
		envelope[t] = lattice.MaxOf(exercise[t], continuation)
	}
	o.exercise = exercise
	o.envelope = envelope
}
