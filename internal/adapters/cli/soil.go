package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	soilQueries "github.com/andrescamacho/agroinsight-go/internal/application/soil/queries"
)

// NewSoilCommand creates the soil command
func NewSoilCommand() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "soil",
		Short: "Show the soil profile for a coordinate",
		Long: `Derive a soil profile from Open-Meteo surface readings.

When the soil API is unreachable a regional fallback profile is shown.

Examples:
  agroinsight soil --lat 18.5204 --lon 73.8567
  agroinsight soil --lat 30.90 --lon 75.85 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
				return fmt.Errorf("--lat and --lon flags are required")
			}

			response, err := runQuery(cmd.Context(), &soilQueries.GetSoilProfileQuery{Lat: lat, Lon: lon})
			if err != nil {
				return err
			}

			result, ok := response.(*soilQueries.GetSoilProfileResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", response)
			}

			if outputJSON {
				return printJSON(result.Profile)
			}

			p := result.Profile
			fmt.Printf("Soil profile at %.3f, %.3f (source: %s)\n\n", p.Lat, p.Lon, p.Source)
			fmt.Printf("  Soil type:       %s\n", p.SoilType)
			fmt.Printf("  pH:              %.1f\n", p.PH)
			fmt.Printf("  Organic carbon:  %.2f%%\n", p.OrganicCarbon)
			fmt.Printf("  Sand/Silt/Clay:  %.0f/%.0f/%.0f\n", p.Sand, p.Silt, p.Clay)
			if p.Moisture != nil {
				fmt.Printf("  Moisture:        %.3f m³/m³\n", *p.Moisture)
			}
			if p.Temperature != nil {
				fmt.Printf("  Temperature:     %.1f°C\n", *p.Temperature)
			}
			fmt.Printf("  Suggested crops: %s\n", strings.Join(p.RecommendedCrops, ", "))
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude (required)")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude (required)")

	return cmd
}
