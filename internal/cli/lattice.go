package cli

import (
	"github.com/spf13/cobra"

	"crr-pricer/internal/lattice"
	"crr-pricer/internal/logging"
)

type latticeJSON struct {
	Steps         int         `json:"steps"`
	StepLength    float64     `json:"dt"`
	UpFactor      float64     `json:"up"`
	DownFactor    float64     `json:"down"`
	ProbUp        float64     `json:"p"`
	ProbDown      float64     `json:"q"`
	Discount      float64     `json:"discount"`
	Arbitrage     string      `json:"arbitrage,omitempty"`
	Values        [][]float64 `json:"values"`
	Probabilities [][]float64 `json:"probabilities"`
}

func newLatticeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Show the asset price lattice",
		Long: `Print the CRR calibration together with the asset value and
path probability matrices. Row t holds the t+1 nodes reachable after t
steps, ordered from all up moves to all down moves.`,
		Example: `  crr lattice --steps 5
  crr lattice --sigma 0.4 --rows 8 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLattice(cmd, app)
		},
	}

	addModelFlags(cmd)
	cmd.Flags().Int("precision", 0, "decimals in printed values")
	cmd.Flags().Int("rows", 0, "maximum matrix rows to print")

	return cmd
}

func runLattice(cmd *cobra.Command, app *App) error {
	output := NewOutput(cmd)
	app.Logger = logging.WithOperation(app.Logger, "lattice")

	run, err := resolveRun(cmd, app.Config)
	if err != nil {
		return err
	}
	model, err := buildModel(app, run)
	if err != nil {
		return err
	}

	maxRows := run.cfg.Output.MaxMatrixRows
	values := model.Values()
	probs := model.Probabilities()
	p, q := model.UpDownProbabilities()

	if output.IsJSON() {
		res := latticeJSON{
			Steps:         run.stockSteps,
			StepLength:    model.StepLength(),
			UpFactor:      model.UpFactor(),
			DownFactor:    model.DownFactor(),
			ProbUp:        p,
			ProbDown:      q,
			Discount:      model.Discount(),
			Values:        truncateRows(values, maxRows),
			Probabilities: truncateRows(probs, maxRows),
		}
		if err := model.CheckArbitrage(); err != nil {
			res.Arbitrage = err.Error()
		}
		return output.JSON(res)
	}

	precision := run.cfg.Output.Precision
	output.Bold("CRR Lattice")
	output.Printf("  N=%d  dt=%s  discount=%s\n", run.stockSteps, FormatFactor(model.StepLength()), FormatFactor(model.Discount()))
	output.Printf("  u=%s  d=%s  p=%s  q=%s\n",
		FormatFactor(model.UpFactor()), FormatFactor(model.DownFactor()), FormatFactor(p), FormatFactor(q))
	if err := model.CheckArbitrage(); err != nil {
		output.Warning("  %v", err)
	}

	printTriangle(output, "Asset values", values, precision, maxRows)
	printTriangle(output, "Path probabilities", probs, precision, maxRows)
	return nil
}

func printTriangle(output *Output, title string, tri lattice.Triangle, precision, maxRows int) {
	output.Println()
	output.Bold("%s", title)
	for _, line := range FormatMatrix(tri, precision, maxRows, nil) {
		output.Println(line)
	}
}
