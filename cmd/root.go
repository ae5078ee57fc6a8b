package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/solarrail/internal/analysis"
	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/config"
	"github.com/alexiusacademia/solarrail/internal/logging"
	"github.com/alexiusacademia/solarrail/internal/version"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	// cfg is loaded before any subcommand runs
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "solarrail",
	Short: "Solar Panel Rail Span Design Tool",
	Long: `solarrail - Solar Panel Rail Span Designer

A CLI tool for the design of roof-mounted solar panel rails
under wind action to AS/NZS 1170.2.

This tool helps engineers perform:
  - Regional and design wind speed calculation
  - External pressure coefficient selection (both wind directions)
  - Zone design pressures and rail line loads
  - Continuous rail analysis by the three-moment equation
  - Maximum rail span optimization (bending and pull-out)
  - Text, PDF and XLSX design reports`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		cfg = loaded

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		return logging.Setup(cfg.LogLevel, cfg.LogFormat)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   solarrail v%-45s║\n", version.Version)
		fmt.Println("  ║   Solar Panel Rail Span Designer                          ║")
		fmt.Printf("  ║   %s ©  %-36s║\n", version.Author, version.Year)
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the design of solar panel mounting rails")
		fmt.Println("  under wind action to AS/NZS 1170.2.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Wind speed and pressure per roof zone")
		fmt.Println("    • Continuous rail shear, moment and reactions")
		fmt.Println("    • Maximum span search with full iteration trace")
		fmt.Println("    • Project analysis with text, PDF and XLSX reports")
		fmt.Println("    • JSON HTTP API")
		fmt.Println()
		fmt.Println("  Use 'solarrail --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "INI configuration file (default $SOLARRAIL_CONFIG or solarrail.ini)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}

// newAnalyzer builds an analyzer over the standard tables with the
// configured search defaults
func newAnalyzer() *analysis.Analyzer {
	return analysis.NewAnalyzer(asnzs.DefaultTable(), cfg.SpanOptions())
}
