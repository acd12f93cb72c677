// Package lattice implements the Cox-Ross-Rubinstein binomial model of an asset:
// the recombining tree of asset values, the risk-neutral path probabilities and
// the one-step discounted conditional expectation used for backward induction.
package lattice

import (
	"math"
	"sync"

	"crr-pricer/internal/errors"
)

// Params holds the asset and time discretization of a binomial model.
type Params struct {
	Spot    float64 // initial asset value
	Rate    float64 // annualized continuously compounded risk-free rate
	Sigma   float64 // annualized volatility
	Steps   int     // number of lattice time steps N
	Horizon float64 // time horizon T in years
}

// Model is a binomial lattice. Parameters are fixed at construction; the value
// and probability tables are each built once, on first access.
type Model struct {
	params Params

	up       float64
	down     float64
	probUp   float64
	probDown float64
	discount float64

	valuesOnce sync.Once
	values     Triangle

	probsOnce sync.Once
	probs     Triangle
}

// New calibrates a binomial model. The only rejected input is a non-positive
// step count. Parameters giving an up probability outside (0,1) are accepted;
// see CheckArbitrage.
func New(p Params) (*Model, error) {
	if p.Steps <= 0 {
		return nil, errors.NewValidationError("steps", p.Steps, "lattice needs at least one step", errors.ErrInvalidSteps)
	}

	dt := p.Horizon / float64(p.Steps)
	m := &Model{params: p}
	m.up = math.Exp(p.Sigma * math.Sqrt(dt))
	m.down = 1.0 / m.up
	m.probUp = (math.Exp(p.Rate*dt) - m.down) / (m.up - m.down)
	m.probDown = 1.0 - m.probUp
	m.discount = math.Exp(-p.Rate * dt)
	return m, nil
}

// Params returns the parameters the model was built with.
func (m *Model) Params() Params {
	return m.params
}

// UpFactor returns u.
func (m *Model) UpFactor() float64 {
	return m.up
}

// DownFactor returns d = 1/u.
func (m *Model) DownFactor() float64 {
	return m.down
}

// StepLength returns T/N in years.
func (m *Model) StepLength() float64 {
	return m.params.Horizon / float64(m.params.Steps)
}

// Discount returns the one-step discount factor exp(-r*T/N).
func (m *Model) Discount() float64 {
	return m.discount
}

// UpDownProbabilities returns the risk-neutral probabilities (p, 1-p) of a single move.
func (m *Model) UpDownProbabilities() (float64, float64) {
	return m.probUp, m.probDown
}

// CheckArbitrage reports whether the calibration admits a risk-neutral measure.
func (m *Model) CheckArbitrage() error {
	if m.probUp > 0 && m.probUp < 1 {
		return nil
	}
	return &errors.CalibrationError{
		Up:    m.up,
		Down:  m.down,
		Drift: math.Exp(m.params.Rate * m.StepLength()),
		Prob:  m.probUp,
	}
}

// Values returns the full table of asset values. Entry [t][k] is the value
// after t moves of which k were down.
func (m *Model) Values() Triangle {
	m.valuesOnce.Do(m.generateValues)
	return m.values.Clone()
}

// Probabilities returns the full table of unconditional node probabilities.
func (m *Model) Probabilities() Triangle {
	m.probsOnce.Do(m.generateProbabilities)
	return m.probs.Clone()
}

// ValuesAt returns the t+1 reachable asset values at step t, from all ups to all downs.
func (m *Model) ValuesAt(t int) []float64 {
	m.valuesOnce.Do(m.generateValues)
	return m.values.Row(t)
}

// TransformedValuesAt returns f applied to the asset values at step t.
func (m *Model) TransformedValuesAt(t int, f func(float64) float64) []float64 {
	return Apply(m.ValuesAt(t), f)
}

// ProbabilitiesAt returns the probability of reaching each node of step t.
func (m *Model) ProbabilitiesAt(t int) []float64 {
	m.probsOnce.Do(m.generateProbabilities)
	return m.probs.Row(t)
}

// ConditionalExpectation discounts one step back the values of (a function of)
// the process at step t+1. next must hold t+2 entries; the result holds t+1.
// Result[k] is conditioned on k downs so far: next[k] is its up successor and
// next[k+1] its down successor.
func (m *Model) ConditionalExpectation(next []float64, t int) []float64 {
	out := make([]float64, t+1)
	for k := 0; k <= t; k++ {
		out[k] = (next[k]*m.probUp + next[k+1]*m.probDown) * m.discount
	}
	return out
}

func (m *Model) generateValues() {
	n := m.params.Steps
	values := NewTriangle(n)
	values[0][0] = m.params.Spot
	for t := 1; t < n; t++ {
		for k := 0; k <= t; k++ {
			values[t][k] = m.params.Spot * math.Pow(m.up, float64(t-k)) * math.Pow(m.down, float64(k))
		}
	}
	m.values = values
}

func (m *Model) generateProbabilities() {
	n := m.params.Steps
	probs := NewTriangle(n)
	probs[0][0] = 1
	for t := 1; t < n; t++ {
		// C(t,k) carried across the row: C(t,k+1) = C(t,k)*(t-k)/(k+1)
		binom := 1.0
		for k := 0; k <= t; k++ {
			probs[t][k] = binom * math.Pow(m.probUp, float64(t-k)) * math.Pow(m.probDown, float64(k))
			binom = binom * float64(t-k) / float64(k+1)
		}
	}
	m.probs = probs
}
