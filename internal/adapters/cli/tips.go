package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	irrigationQueries "github.com/andrescamacho/agroinsight-go/internal/application/irrigation/queries"
)

// NewTipsCommand creates the irrigation tips command
func NewTipsCommand() *cobra.Command {
	var (
		lat      string
		lon      string
		city     string
		district string
		state    string
		season   string
		locale   string
	)

	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Generate irrigation tips for a location",
		Long: `Generate crop irrigation tips from the next day's weather.

The season defaults to the current month's growing season. When weather is
unavailable the tips are based on seasonal normals instead.

Examples:
  agroinsight tips --city Nashik
  agroinsight tips --lat 18.52 --lon 73.85 --season Kharif
  agroinsight tips --district Pune --state Maharashtra --locale hi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			latV, err := parseOptionalFloat("lat", lat)
			if err != nil {
				return err
			}
			lonV, err := parseOptionalFloat("lon", lon)
			if err != nil {
				return err
			}
			if locale == "" {
				locale = loadUserConfig().DefaultLocale
			}

			response, err := runQuery(cmd.Context(), &irrigationQueries.GetIrrigationTipsQuery{
				Lat:      latV,
				Lon:      lonV,
				City:     city,
				District: district,
				State:    state,
				Season:   season,
				Locale:   locale,
			})
			if err != nil {
				return err
			}

			result, ok := response.(*irrigationQueries.GetIrrigationTipsResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", response)
			}

			if outputJSON {
				return printJSON(result)
			}

			basis := "forecast"
			if !result.WeatherBased {
				basis = "seasonal normals"
			}
			fmt.Printf("%s season tips for %s (based on %s)\n", result.Season, describeLocation(result), basis)
			fmt.Printf("Temperature %.1f°C, humidity %.0f%%, rain %.1f mm\n\n",
				result.Conditions.Temperature, result.Conditions.Humidity, result.Conditions.Rainfall)

			for _, tip := range result.Tips {
				fmt.Printf("%s %s: %s\n", tip.Icon, tip.Crop, tip.Title)
				fmt.Printf("   %s\n\n", tip.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lat, "lat", "", "Latitude")
	cmd.Flags().StringVar(&lon, "lon", "", "Longitude")
	cmd.Flags().StringVar(&city, "city", "", "City name")
	cmd.Flags().StringVar(&district, "district", "", "District name")
	cmd.Flags().StringVar(&state, "state", "", "State name")
	cmd.Flags().StringVar(&season, "season", "", "Kharif, Rabi, Summer or Winter (default: current season)")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale for the tip text (default: en)")

	return cmd
}

func describeLocation(result *irrigationQueries.GetIrrigationTipsResponse) string {
	loc := result.Location
	for _, name := range []string{loc.City, loc.District, loc.State} {
		if name != "" {
			return name
		}
	}
	return fmt.Sprintf("%.3f, %.3f", loc.Lat, loc.Lon)
}
