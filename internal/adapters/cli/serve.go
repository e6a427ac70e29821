package cli

import (
	"context"
	"fmt"
	"net/http"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/httpserver"
	"github.com/andrescamacho/agroinsight-go/internal/adapters/metrics"
	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
	infraLogging "github.com/andrescamacho/agroinsight-go/internal/infrastructure/logging"
	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/pidfile"
)

// NewServeCommand creates the serve command that runs the HTTP API
func NewServeCommand() *cobra.Command {
	var address, pidPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the AgroInsight HTTP API.

The server listens until SIGINT or SIGTERM, then drains in-flight requests
for up to server.shutdown_timeout before exiting.

Examples:
  agroinsight serve
  agroinsight serve --address :9090
  agroinsight serve --pid-file /run/agroinsight.pid
  AGRO_SERVER_ADDRESS=:9090 agroinsight serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Server.Address = address
			}
			if pidPath != "" {
				cfg.Server.PIDFile = pidPath
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}

			if cfg.Server.PIDFile != "" {
				pf := pidfile.New(cfg.Server.PIDFile)
				if err := pf.Acquire(); err != nil {
					return err
				}
				defer pf.Release()
			}

			logger, err := infraLogging.NewStdLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			app, err := newApplication(cmd.Context(), cfg, logger, true)
			if err != nil {
				_ = logger.Close()
				return err
			}

			for _, warning := range missingKeyWarnings(cfg) {
				logger.Log(logging.LevelWarning, warning, nil)
			}

			var metricsHandler http.Handler
			if metrics.IsEnabled() {
				metricsHandler = promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
			}

			server := httpserver.NewServer(app.mediator, httpserver.Options{
				Config:         cfg.Server,
				Logger:         logger,
				Caches:         app.caches,
				MetricsPath:    cfg.Metrics.Path,
				MetricsHandler: metricsHandler,
			})

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- server.ListenAndServe()
			}()

			wait := gfshutdown.GracefulShutdown(
				context.Background(),
				cfg.Server.ShutdownTimeout,
				map[string]gfshutdown.Operation{
					"http-server": func(ctx context.Context) error {
						return server.Shutdown(ctx)
					},
				},
			)

			// ListenAndServe returns nil once Shutdown starts, so a nil
			// result still waits for the shutdown operations to finish
			var code int
			select {
			case err := <-serveErr:
				if err != nil {
					_ = app.Close()
					return fmt.Errorf("http server failed: %w", err)
				}
				code = <-wait
			case code = <-wait:
			}

			logger.Log(logging.LevelInfo, "Shutdown complete", map[string]interface{}{
				"exit_code": code,
			})
			_ = app.Close()
			if code != 0 {
				return fmt.Errorf("shutdown finished with exit code %d", code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides server.address)")
	cmd.Flags().StringVar(&pidPath, "pid-file", "", "PID file guarding against a second instance (overrides server.pid_file)")

	return cmd
}

// missingKeyWarnings lists the endpoints that fail per request for lack of an API key
func missingKeyWarnings(cfg *config.Config) []string {
	var warnings []string
	if cfg.Agmarknet.APIKey == "" {
		warnings = append(warnings, "AGMARKNET_API_KEY is not set, market and price endpoints will return 500")
	}
	if cfg.Weather.APIKey == "" {
		warnings = append(warnings, "OPENWEATHER_API_KEY is not set, weather and irrigation-tips endpoints will return 500")
	}
	return warnings
}
