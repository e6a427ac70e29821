package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
)

// default deadline for one-shot query commands
const commandTimeout = 60 * time.Second

// runQuery wires the application, sends one request and tears it down
func runQuery(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	app, err := newApplication(ctx, cfg, newCommandLogger(), false)
	if err != nil {
		return nil, err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	return app.send(ctx, request)
}

// loadUserConfig returns saved preferences, or empty ones if none can be read
func loadUserConfig() *config.UserConfig {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return &config.UserConfig{}
	}
	userCfg, err := handler.Load()
	if err != nil {
		return &config.UserConfig{}
	}
	return userCfg
}

// printJSON writes v to stdout as indented JSON
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseOptionalFloat returns nil for an empty flag value
func parseOptionalFloat(name, value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("--%s must be a number: %w", name, err)
	}
	return &f, nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
