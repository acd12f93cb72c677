package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"crr-pricer/internal/config"
	"crr-pricer/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-19"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
}

// NewRootCmd creates the root command for the CLI. The configuration is
// loaded before any subcommand runs, from --config or the default directory.
func NewRootCmd(logger zerolog.Logger) *cobra.Command {
	app := &App{
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "crr",
		Short: "Binomial lattice option pricer",
		Long: `crr prices European and American options on a Cox-Ross-Rubinstein
binomial lattice.

Model and contract parameters come from config.toml and can be overridden
with flags. Use 'crr config path' to find the configuration directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("config")
			if dir == "" {
				dir = config.DefaultConfigDir()
			}
			app.ConfigDir = dir

			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			app.Config = cfg
			app.Logger = logging.NewLoggerWithConfig(cfg.LoggingConfig())

			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			app.Logger.Debug().Str("config_dir", dir).Msg("Configuration loaded")
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/crr-pricer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newLatticeCmd(app))
	rootCmd.AddCommand(newExamplesCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("crr v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the pricer configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := config.TemplatePath(app.ConfigDir)
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Model")
	output.Printf("  Spot:            %g\n", cfg.Model.Spot)
	output.Printf("  Rate:            %g\n", cfg.Model.Rate)
	output.Printf("  Sigma:           %g\n", cfg.Model.Sigma)
	output.Printf("  Steps/Year:      %d\n", cfg.Model.StepsPerYear)
	output.Printf("  Horizon:         %gy (%d steps)\n", cfg.Model.Horizon, cfg.LatticeSteps())
	output.Println()

	output.Bold("Option")
	output.Printf("  Strike:          %g\n", cfg.Option.Strike)
	output.Printf("  Maturity:        %gy (%d steps)\n", cfg.Option.Maturity, cfg.OptionSteps())
	output.Printf("  Styles:          %v\n", cfg.Option.Styles)
	output.Printf("  Kinds:           %v\n", cfg.Option.Kinds)
	output.Println()

	output.Bold("Output")
	output.Printf("  Precision:       %d\n", cfg.Output.Precision)
	output.Printf("  Show Matrices:   %v\n", cfg.Output.ShowMatrices)
	output.Printf("  Max Rows:        %d\n", cfg.Output.MaxMatrixRows)
	output.Printf("  Compare BS:      %v\n", cfg.Output.CompareBenchmark)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Log.Level)
	output.Printf("  File:            %v\n", cfg.Log.File)
	if cfg.Log.File {
		output.Printf("  Path:            %s\n", cfg.Log.Path)
	}
}
