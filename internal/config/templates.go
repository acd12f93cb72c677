package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# CRR Pricer Configuration

[model]
# Initial value of the underlying
spot = 100.0
# Annualized continuously compounded risk-free rate
rate = 0.04
# Annualized volatility
sigma = 0.25
# Lattice steps per year; the lattice has ceil(steps_per_year * horizon) steps
steps_per_year = 15
# Lattice horizon in years
horizon = 2.0

[option]
strike = 90.0
# Option life in years, at most the lattice horizon
maturity = 2.0
# Exercise styles to price: european, american
styles = ["european", "american"]
# Payoffs to price: call, put
kinds = ["call", "put"]

[output]
# Decimal places of reported prices
precision = 4
# Print the full lattice and option value matrices
show_matrices = false
# Truncate printed matrices to this many time steps
max_matrix_rows = 12
# Compare European prices with the Black-Scholes formula
compare_benchmark = true

[log]
# Log level: debug, info, warn, error
level = "info"
# Also write rotated logs to path
file = false
# path = "~/.config/crr-pricer/logs/crr.log"
max_size = 20
max_backups = 3
max_age = 30
`

// TemplatePath returns the config file path inside configDir.
func TemplatePath(configDir string) string {
	return filepath.Join(configDir, "config.toml")
}

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := TemplatePath(configDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
