package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	outputJSON bool
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "agroinsight",
		Short: "AgroInsight - Market prices and field advisories for Indian agriculture",
		Long: `AgroInsight aggregates mandi prices from Agmarknet and produces soil,
weather and irrigation advisories for a location.

Run "agroinsight serve" to start the HTTP API, or use the query commands
directly from the terminal.

Examples:
  agroinsight serve
  agroinsight prices --commodity Wheat --state Punjab --sort desc
  agroinsight soil --lat 18.52 --lon 73.85
  agroinsight weather --city Pune
  agroinsight tips --city Nashik --season Rabi
  agroinsight config set-geography --state Maharashtra --district Pune`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false,
		"Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewPricesCommand())
	rootCmd.AddCommand(NewSoilCommand())
	rootCmd.AddCommand(NewWeatherCommand())
	rootCmd.AddCommand(NewTipsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
