package cli

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"crr-pricer/internal/benchmark"
	"crr-pricer/internal/config"
	"crr-pricer/internal/errors"
	"crr-pricer/internal/lattice"
	"crr-pricer/internal/logging"
	"crr-pricer/internal/options"
)

// pricingRun is the fully resolved input of one pricing command.
type pricingRun struct {
	cfg         config.Config
	stockSteps  int
	optionSteps int
}

// addModelFlags registers the flags that override the [model] section.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "initial asset price")
	cmd.Flags().Float64("rate", 0, "continuously compounded risk-free rate")
	cmd.Flags().Float64("sigma", 0, "volatility")
	cmd.Flags().Float64("horizon", 0, "lattice horizon in years")
	cmd.Flags().Int("steps-per-year", 0, "lattice steps per year")
	cmd.Flags().Int("steps", 0, "lattice steps, overriding steps-per-year")
}

// resolveRun applies changed flags on top of the loaded configuration.
func resolveRun(cmd *cobra.Command, base *config.Config) (*pricingRun, error) {
	run := &pricingRun{cfg: *base}
	cfg := &run.cfg
	flags := cmd.Flags()

	floatFlags := []struct {
		name   string
		target *float64
	}{
		{"spot", &cfg.Model.Spot},
		{"rate", &cfg.Model.Rate},
		{"sigma", &cfg.Model.Sigma},
		{"horizon", &cfg.Model.Horizon},
		{"strike", &cfg.Option.Strike},
		{"maturity", &cfg.Option.Maturity},
	}
	for _, f := range floatFlags {
		if flags.Lookup(f.name) != nil && flags.Changed(f.name) {
			*f.target, _ = flags.GetFloat64(f.name)
		}
	}
	if flags.Changed("steps-per-year") {
		cfg.Model.StepsPerYear, _ = flags.GetInt("steps-per-year")
	}
	if flags.Lookup("style") != nil && flags.Changed("style") {
		cfg.Option.Styles, _ = flags.GetStringSlice("style")
	}
	if flags.Lookup("kind") != nil && flags.Changed("kind") {
		cfg.Option.Kinds, _ = flags.GetStringSlice("kind")
	}
	if flags.Lookup("precision") != nil && flags.Changed("precision") {
		cfg.Output.Precision, _ = flags.GetInt("precision")
	}
	if flags.Lookup("matrices") != nil && flags.Changed("matrices") {
		cfg.Output.ShowMatrices, _ = flags.GetBool("matrices")
	}
	if flags.Lookup("rows") != nil && flags.Changed("rows") {
		cfg.Output.MaxMatrixRows, _ = flags.GetInt("rows")
	}
	if flags.Lookup("compare") != nil && flags.Changed("compare") {
		cfg.Output.CompareBenchmark, _ = flags.GetBool("compare")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	run.stockSteps = cfg.LatticeSteps()
	run.optionSteps = cfg.OptionSteps()
	if flags.Changed("steps") {
		run.stockSteps, _ = flags.GetInt("steps")
		// keep the option's share of the horizon
		run.optionSteps = int(math.Ceil(float64(run.stockSteps)*cfg.Option.Maturity/cfg.Model.Horizon - 1e-9))
	}
	if flags.Lookup("option-steps") != nil && flags.Changed("option-steps") {
		run.optionSteps, _ = flags.GetInt("option-steps")
	}
	return run, nil
}

// buildModel constructs the lattice and reports its calibration.
func buildModel(app *App, run *pricingRun) (*lattice.Model, error) {
	model, err := lattice.New(lattice.Params{
		Spot:    run.cfg.Model.Spot,
		Rate:    run.cfg.Model.Rate,
		Sigma:   run.cfg.Model.Sigma,
		Steps:   run.stockSteps,
		Horizon: run.cfg.Model.Horizon,
	})
	if err != nil {
		return nil, err
	}

	p, _ := model.UpDownProbabilities()
	logging.LogLattice(app.Logger, run.stockSteps, model.UpFactor(), model.DownFactor(), p)
	if err := model.CheckArbitrage(); err != nil {
		app.Logger.Warn().Err(err).Msg("Lattice admits arbitrage, prices are not meaningful")
	}
	return model, nil
}

// contractSpec is a contract together with what produced it.
type contractSpec struct {
	options.Contract
	Kind   options.Kind
	Strike float64
}

// buildContracts expands the configured styles and kinds.
func buildContracts(cfg *config.Config, steps int) ([]contractSpec, error) {
	var out []contractSpec
	for _, s := range cfg.Option.Styles {
		style, err := options.ParseStyle(s)
		if err != nil {
			return nil, err
		}
		for _, k := range cfg.Option.Kinds {
			kind, err := options.ParseKind(k)
			if err != nil {
				return nil, err
			}
			out = append(out, contractSpec{
				Contract: options.Contract{
					Name:   options.Label(style, kind, cfg.Option.Strike),
					Style:  style,
					Payoff: kind.Payoff(cfg.Option.Strike),
					Steps:  steps,
				},
				Kind:   kind,
				Strike: cfg.Option.Strike,
			})
		}
	}
	if len(out) == 0 {
		return nil, errors.NewValidationError("option.styles", cfg.Option.Styles,
			"no contracts to price", errors.ErrConfigInvalid)
	}
	return out, nil
}

// benchmarkPrice is the Black-Scholes value of a European contract at the
// maturity of the last row it uses.
func benchmarkPrice(model *lattice.Model, c contractSpec) float64 {
	p := model.Params()
	maturity := float64(c.Steps-1) * model.StepLength()
	if c.Kind == options.KindPut {
		return benchmark.Put(p.Spot, c.Strike, p.Rate, p.Sigma, maturity)
	}
	return benchmark.Call(p.Spot, c.Strike, p.Rate, p.Sigma, maturity)
}

type quoteJSON struct {
	Name          string           `json:"name"`
	Style         string           `json:"style"`
	Kind          string           `json:"kind"`
	Strike        float64          `json:"strike"`
	Steps         int              `json:"steps"`
	Price         decimal.Decimal  `json:"price"`
	BlackScholes  *decimal.Decimal `json:"black_scholes,omitempty"`
	EarlyExercise *int             `json:"early_exercise_nodes,omitempty"`
	Values        [][]float64      `json:"values,omitempty"`
}

type priceJSON struct {
	Spot       float64     `json:"spot"`
	Rate       float64     `json:"rate"`
	Sigma      float64     `json:"sigma"`
	Horizon    float64     `json:"horizon"`
	Steps      int         `json:"steps"`
	UpFactor   float64     `json:"up"`
	DownFactor float64     `json:"down"`
	ProbUp     float64     `json:"p"`
	Quotes     []quoteJSON `json:"quotes"`
}

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price European and American options",
		Long: `Price calls and puts on a CRR binomial lattice.

The lattice spans the model horizon; each option uses the first
ceil(steps_per_year * maturity) rows of it. European prices can be
compared against the Black-Scholes formula.`,
		Example: `  crr price
  crr price --strike 100 --style american --kind put
  crr price --steps 500 --matrices=false --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(cmd, app)
		},
	}

	addModelFlags(cmd)
	cmd.Flags().Float64("strike", 0, "strike price")
	cmd.Flags().Float64("maturity", 0, "option maturity in years")
	cmd.Flags().Int("option-steps", 0, "option steps, overriding maturity")
	cmd.Flags().StringSlice("style", nil, "exercise styles (european, american)")
	cmd.Flags().StringSlice("kind", nil, "payoff kinds (call, put)")
	cmd.Flags().Int("precision", 0, "decimals in printed prices")
	cmd.Flags().Bool("matrices", false, "print option value matrices")
	cmd.Flags().Int("rows", 0, "maximum matrix rows to print")
	cmd.Flags().Bool("compare", false, "compare European prices with Black-Scholes")

	return cmd
}

func runPrice(cmd *cobra.Command, app *App) error {
	output := NewOutput(cmd)
	logger := logging.WithOperation(app.Logger, "price")

	run, err := resolveRun(cmd, app.Config)
	if err != nil {
		return err
	}
	model, err := buildModel(app, run)
	if err != nil {
		return err
	}
	entries, err := buildContracts(&run.cfg, run.optionSteps)
	if err != nil {
		return err
	}

	contracts := make([]options.Contract, len(entries))
	for i, s := range entries {
		contracts[i] = s.Contract
	}

	start := time.Now()
	quotes, err := options.PriceBook(cmd.Context(), model, run.stockSteps, contracts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logQuotes(logger, run.optionSteps, quotes, elapsed)

	if output.IsJSON() {
		return output.JSON(priceResult(model, run, entries, quotes))
	}
	printPrices(output, model, run, entries, quotes, elapsed)
	return nil
}

// logQuotes logs each quote with its own valuation time, then the batch.
func logQuotes(logger zerolog.Logger, steps int, quotes []options.Quote, elapsed time.Duration) {
	for _, q := range quotes {
		logging.LogQuote(logger, q.Name, steps, q.Price, q.Elapsed)
	}
	logger.Debug().
		Int("contracts", len(quotes)).
		Dur("duration", elapsed).
		Msg("Book priced")
}

func priceResult(model *lattice.Model, run *pricingRun, contracts []contractSpec, quotes []options.Quote) priceJSON {
	p, _ := model.UpDownProbabilities()
	res := priceJSON{
		Spot:       run.cfg.Model.Spot,
		Rate:       run.cfg.Model.Rate,
		Sigma:      run.cfg.Model.Sigma,
		Horizon:    run.cfg.Model.Horizon,
		Steps:      run.stockSteps,
		UpFactor:   model.UpFactor(),
		DownFactor: model.DownFactor(),
		ProbUp:     p,
	}

	precision := run.cfg.Output.Precision
	for i, q := range quotes {
		qj := quoteJSON{
			Name:   q.Name,
			Style:  q.Style.String(),
			Kind:   contracts[i].Kind.String(),
			Strike: contracts[i].Strike,
			Steps:  contracts[i].Steps,
			Price:  RoundPrice(q.Price, precision),
		}
		if run.cfg.Output.CompareBenchmark && q.Style == options.StyleEuropean {
			bs := RoundPrice(benchmarkPrice(model, contracts[i]), precision)
			qj.BlackScholes = &bs
		}
		if q.ExerciseNodes != nil {
			n := CountMarked(q.ExerciseNodes)
			qj.EarlyExercise = &n
		}
		if run.cfg.Output.ShowMatrices {
			qj.Values = truncateRows(q.Values, run.cfg.Output.MaxMatrixRows)
		}
		res.Quotes = append(res.Quotes, qj)
	}
	return res
}

func printPrices(output *Output, model *lattice.Model, run *pricingRun, contracts []contractSpec, quotes []options.Quote, elapsed time.Duration) {
	cfg := &run.cfg
	precision := cfg.Output.Precision
	p, q := model.UpDownProbabilities()

	output.Bold("CRR Lattice")
	output.Printf("  S0=%g  r=%g  sigma=%g  T=%gy  N=%d  M=%d\n",
		cfg.Model.Spot, cfg.Model.Rate, cfg.Model.Sigma, cfg.Model.Horizon, run.stockSteps, run.optionSteps)
	output.Printf("  u=%s  d=%s  p=%s  q=%s\n",
		FormatFactor(model.UpFactor()), FormatFactor(model.DownFactor()), FormatFactor(p), FormatFactor(q))
	if err := model.CheckArbitrage(); err != nil {
		output.Warning("  %v", err)
	}
	output.Println()

	headers := []string{"Contract", "Price"}
	if cfg.Output.CompareBenchmark {
		headers = append(headers, "Black-Scholes", "Diff")
	}
	table := NewTable(output, headers...)
	for i, quote := range quotes {
		row := []string{output.Cyan(quote.Name), FormatPrice(quote.Price, precision)}
		if cfg.Output.CompareBenchmark {
			if quote.Style == options.StyleEuropean {
				bs := benchmarkPrice(model, contracts[i])
				row = append(row, FormatPrice(bs, precision), FormatDiff(quote.Price-bs, precision))
			} else {
				row = append(row, "-", "-")
			}
		}
		table.AddRow(row...)
	}
	table.Render()

	if cfg.Output.ShowMatrices {
		for _, quote := range quotes {
			output.Println()
			output.Bold("%s", quote.Name)
			for _, line := range FormatMatrix(quote.Values, precision, cfg.Output.MaxMatrixRows, quote.ExerciseNodes) {
				output.Println(line)
			}
			if quote.ExerciseNodes != nil {
				output.Dim("early exercise nodes: %d (marked %s)", CountMarked(quote.ExerciseNodes), exerciseMark)
			}
		}
	}

	output.Println()
	output.Dim("Priced %d contracts in %s", len(quotes), FormatDuration(elapsed))
}

// truncateRows returns at most maxRows rows of tri; non-positive means all.
func truncateRows(tri lattice.Triangle, maxRows int) [][]float64 {
	if maxRows > 0 && tri.Rows() > maxRows {
		return tri[:maxRows]
	}
	return tri
}
