package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"crr-pricer/internal/errors"
	"crr-pricer/internal/lattice"
	"crr-pricer/internal/options"
)

// execute runs the root command against a fresh config directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CRR_LOG_LEVEL", "error")

	var buf bytes.Buffer
	root := NewRootCmd(zerolog.Nop())
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := root.Execute()
	return buf.String(), err
}

type priceOutput struct {
	Steps  int `json:"steps"`
	Quotes []struct {
		Name          string           `json:"name"`
		Style         string           `json:"style"`
		Kind          string           `json:"kind"`
		Steps         int              `json:"steps"`
		Price         decimal.Decimal  `json:"price"`
		BlackScholes  *decimal.Decimal `json:"black_scholes"`
		EarlyExercise *int             `json:"early_exercise_nodes"`
		Values        [][]float64      `json:"values"`
	} `json:"quotes"`
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	require.Equal(t, Version, v["version"])
}

func TestPriceJSONDefaults(t *testing.T) {
	out, err := execute(t, "price", "--json")
	require.NoError(t, err)

	var res priceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, 30, res.Steps)
	require.Len(t, res.Quotes, 4)

	m, err := lattice.New(lattice.Params{Spot: 100, Rate: 0.04, Sigma: 0.25, Steps: 30, Horizon: 2})
	require.NoError(t, err)

	for _, q := range res.Quotes {
		style, err := options.ParseStyle(q.Style)
		require.NoError(t, err)
		kind, err := options.ParseKind(q.Kind)
		require.NoError(t, err)
		require.Equal(t, options.Label(style, kind, 90), q.Name)

		v, err := options.New(style, kind.Payoff(90), 30, 30, m)
		require.NoError(t, err)
		want := decimal.NewFromFloat(v.Price()).Round(4)
		require.True(t, want.Equal(q.Price), "%s: want %s got %s", q.Name, want, q.Price)

		if style == options.StyleEuropean {
			require.NotNil(t, q.BlackScholes)
			require.Nil(t, q.EarlyExercise)
		} else {
			require.Nil(t, q.BlackScholes)
			require.NotNil(t, q.EarlyExercise)
		}
		require.Nil(t, q.Values)
	}
}

func TestPriceFlagsOverrideConfig(t *testing.T) {
	out, err := execute(t, "price", "--json", "--style", "american", "--kind", "put",
		"--strike", "110", "--steps", "40", "--matrices", "--rows", "5")
	require.NoError(t, err)

	var res priceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, 40, res.Steps)
	require.Len(t, res.Quotes, 1)

	q := res.Quotes[0]
	require.Equal(t, "American PUT K=110", q.Name)
	require.Equal(t, 40, q.Steps)
	require.Len(t, q.Values, 5)
	require.NotNil(t, q.EarlyExercise)
	require.Greater(t, *q.EarlyExercise, 0)
}

func TestPriceText(t *testing.T) {
	out, err := execute(t, "price", "--matrices", "--rows", "3")
	require.NoError(t, err)

	require.Contains(t, out, "European CALL K=90")
	require.Contains(t, out, "American PUT K=90")
	require.Contains(t, out, "Black-Scholes")
	require.Contains(t, out, "... 27 more rows")
	require.Contains(t, out, "early exercise nodes:")
	require.Contains(t, out, "Priced 4 contracts")
}

func TestPriceRejectsOptionLongerThanLattice(t *testing.T) {
	_, err := execute(t, "price", "--steps", "10", "--option-steps", "11")
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrStepsExceedLattice))

	_, err = execute(t, "price", "--maturity", "3")
	require.True(t, errors.Is(err, errors.ErrConfigInvalid))

	_, err = execute(t, "price", "--style", "bermudan")
	require.True(t, errors.Is(err, errors.ErrUnknownStyle))
}

func TestLatticeJSON(t *testing.T) {
	out, err := execute(t, "lattice", "--json", "--steps", "3")
	require.NoError(t, err)

	var res latticeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, 3, res.Steps)
	require.Len(t, res.Values, 3)
	require.Len(t, res.Probabilities, 3)
	require.Empty(t, res.Arbitrage)

	require.Equal(t, 100.0, res.Values[0][0])
	require.InDelta(t, 100*res.UpFactor, res.Values[1][0], 1e-9)
	require.InDelta(t, 100*res.DownFactor, res.Values[1][1], 1e-9)
	require.InDelta(t, 1.0, res.ProbUp+res.ProbDown, 1e-15)
	require.InDelta(t, res.ProbUp*res.ProbUp, res.Probabilities[2][0], 1e-12)
}

func TestLatticeWarnsOnArbitrage(t *testing.T) {
	out, err := execute(t, "lattice", "--rate", "0.5", "--sigma", "0.01", "--horizon", "3", "--steps", "3")
	require.NoError(t, err)
	require.Contains(t, out, errors.ErrArbitrage.Error())
	require.Contains(t, out, "Path probabilities")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CRR_LOG_LEVEL", "error")

	run := func(args ...string) string {
		var buf bytes.Buffer
		root := NewRootCmd(zerolog.Nop())
		root.SetOut(&buf)
		root.SetArgs(append([]string{"--config", dir}, args...))
		require.NoError(t, root.Execute())
		return buf.String()
	}

	require.Equal(t, filepath.Join(dir, "config.toml"), strings.TrimSpace(run("config", "path")))
	require.Contains(t, run("config", "validate"), "Configuration is valid")

	show := run("config", "show")
	require.Contains(t, show, "Strike:          90")
	require.Contains(t, show, "(30 steps)")
}

func TestExamples(t *testing.T) {
	out, err := execute(t, "examples")
	require.NoError(t, err)
	require.Contains(t, out, "Early Exercise")
	require.Contains(t, out, "crr lattice --steps 5")
}

func TestLogQuotesUsesPerQuoteDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	quotes := []options.Quote{
		{Name: "European CALL K=90", Price: 1, Elapsed: 2 * time.Millisecond},
		{Name: "American PUT K=90", Price: 2, Elapsed: 5 * time.Millisecond},
	}
	logQuotes(logger, 30, quotes, time.Second)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for i, q := range quotes {
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &event))
		require.Equal(t, q.Name, event["contract"])
		require.Equal(t, float64(q.Elapsed/time.Millisecond), event["duration"])
	}

	var batch map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &batch))
	require.Equal(t, 2.0, batch["contracts"])
	require.Equal(t, 1000.0, batch["duration"])
}
