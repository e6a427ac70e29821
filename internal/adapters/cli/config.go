package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage AgroInsight configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (AGRO_* prefix, plus AGMARKNET_API_KEY and OPENWEATHER_API_KEY)
2. Config file (config.yaml)
3. Default values

User preferences (default geography and locale) are stored in ~/.agroinsight/config.json

Examples:
  agroinsight config show
  agroinsight config set-geography --state Maharashtra --district Pune
  agroinsight config set-locale --locale hi
  agroinsight config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetGeographyCommand())
	cmd.AddCommand(newConfigSetLocaleCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the current configuration settings.

Shows both system configuration and user preferences. API keys are masked.

Example:
  agroinsight config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load system config
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			// Load user config
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			if outputJSON {
				return printJSON(userCfg)
			}

			fmt.Println("AgroInsight Configuration")
			fmt.Println("=========================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", userConfigHandler.GetConfigPath())
			if userCfg.DefaultState != "" {
				fmt.Printf("  Default State:    %s\n", userCfg.DefaultState)
				fmt.Printf("  Default District: %s\n", valueOrDash(userCfg.DefaultDistrict))
			} else {
				fmt.Printf("  Default Geography: (not set)\n")
			}
			fmt.Printf("  Default Locale:   %s\n", valueOrDash(userCfg.DefaultLocale))

			fmt.Println("\nServer:")
			fmt.Printf("  Address:          %s\n", cfg.Server.Address)
			fmt.Printf("  Mode:             %s\n", cfg.Server.Mode)
			fmt.Printf("  Shutdown Timeout: %s\n", cfg.Server.ShutdownTimeout)

			fmt.Println("\nAgmarknet API:")
			fmt.Printf("  Base URL:         %s\n", cfg.Agmarknet.BaseURL)
			fmt.Printf("  API Key:          %s\n", maskSecret(cfg.Agmarknet.APIKey))
			fmt.Printf("  Timeout:          %s\n", cfg.Agmarknet.Timeout)
			fmt.Printf("  Rate Limit:       %d req/s (burst: %d)\n",
				cfg.Agmarknet.RateLimit.Requests, cfg.Agmarknet.RateLimit.Burst)

			fmt.Println("\nWeather API:")
			fmt.Printf("  Base URL:         %s\n", cfg.Weather.BaseURL)
			fmt.Printf("  API Key:          %s\n", maskSecret(cfg.Weather.APIKey))
			fmt.Printf("  Units:            %s\n", cfg.Weather.Units)

			fmt.Println("\nSoil API:")
			fmt.Printf("  Base URL:         %s\n", cfg.SoilAPI.BaseURL)
			fmt.Printf("  Breaker:          %d failures, %s cooldown\n",
				cfg.SoilAPI.CircuitBreaker.MaxFailures, cfg.SoilAPI.CircuitBreaker.Cooldown)

			fmt.Println("\nCache:")
			fmt.Printf("  Catalog TTL:      %s\n", cfg.Cache.CatalogTTL)
			fmt.Printf("  Soil TTL:         %s (version %d)\n", cfg.Cache.SoilTTL, cfg.Cache.SoilVersion)
			if cfg.Cache.Redis.Enabled {
				fmt.Printf("  Redis:            %s (db %d)\n", cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB)
			} else {
				fmt.Printf("  Redis:            (disabled)\n")
			}

			fmt.Println("\nAggregation:")
			fmt.Printf("  Max Geographies:  %d\n", cfg.Aggregation.MaxGeographies)
			fmt.Printf("  Max Markets:      %d\n", cfg.Aggregation.MaxMarkets)
			fmt.Printf("  Window:           %d days\n", cfg.Aggregation.WindowDays)
			fmt.Printf("  Concurrency:      %d\n", cfg.Aggregation.Concurrency)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// newConfigSetGeographyCommand creates the config set-geography subcommand
func newConfigSetGeographyCommand() *cobra.Command {
	var state, district string

	cmd := &cobra.Command{
		Use:   "set-geography",
		Short: "Set default state and district",
		Long: `Set the geography the prices command uses when none is given.

Examples:
  agroinsight config set-geography --state Punjab
  agroinsight config set-geography --state Maharashtra --district Nashik`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if state == "" {
				return fmt.Errorf("--state flag is required")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetDefaultGeography(state, district); err != nil {
				return fmt.Errorf("failed to set default geography: %w", err)
			}

			fmt.Println("✓ Default geography set successfully")
			fmt.Printf("  State:    %s\n", state)
			fmt.Printf("  District: %s\n", valueOrDash(district))
			fmt.Printf("\nOverride with --state and --district flags.\n")

			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "State name (required)")
	cmd.Flags().StringVar(&district, "district", "", "District name")

	return cmd
}

// newConfigSetLocaleCommand creates the config set-locale subcommand
func newConfigSetLocaleCommand() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "set-locale",
		Short: "Set default locale for tips",
		Long: `Set the locale the tips command passes along when --locale is omitted.

Example:
  agroinsight config set-locale --locale mr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if locale == "" {
				return fmt.Errorf("--locale flag is required")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetDefaultLocale(locale); err != nil {
				return fmt.Errorf("failed to set default locale: %w", err)
			}

			fmt.Printf("✓ Default locale set to %s\n", locale)
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "Locale code, e.g. hi or mr (required)")

	return cmd
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear saved preferences",
		Long: `Remove the default geography and locale.

Example:
  agroinsight config clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.ClearDefaults(); err != nil {
				return fmt.Errorf("failed to clear preferences: %w", err)
			}

			fmt.Println("✓ Preferences cleared")
			return nil
		},
	}

	return cmd
}

// maskSecret shows only the last four characters of a key
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
