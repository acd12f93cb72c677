package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common pricing workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Price the Configured Contracts",
					commands: []string{
						"crr config show                 # Review model and contracts",
						"crr price                       # Price calls and puts, both styles",
						"crr price --compare=false       # Skip the Black-Scholes column",
					},
				},
				{
					title: "Early Exercise",
					commands: []string{
						"crr price --style american --kind put --matrices   # Mark exercise nodes",
						"crr price --style american --kind put --strike 120 --rows 20",
					},
				},
				{
					title: "Convergence",
					commands: []string{
						"crr price --style european --steps 100",
						"crr price --style european --steps 1000 --precision 6",
					},
				},
				{
					title: "Inspect the Lattice",
					commands: []string{
						"crr lattice --steps 5           # Asset values and probabilities",
						"crr lattice --sigma 0.01 --rate 0.5 --steps 3   # Arbitrage warning",
					},
				},
				{
					title: "Scripting",
					commands: []string{
						"crr price --json | jq '.quotes[].price'",
						"CRR_SPOT=120 crr price --json   # Override from the environment",
					},
				},
			}

			for _, ex := range examples {
				output.Bold("%s", ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Cyan(strings.TrimSpace(parts[0])), output.DimText(strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Cyan(c))
					}
				}
				output.Println()
			}

			return nil
		},
	}
}
