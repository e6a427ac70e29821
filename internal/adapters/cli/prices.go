package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
)

// NewPricesCommand creates the prices command
func NewPricesCommand() *cobra.Command {
	var (
		commodity string
		state     string
		district  string
		sortOrder string
		page      int
		pageSize  int
	)

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show current mandi prices for a commodity",
		Long: `Aggregate the latest modal prices for a commodity across Agmarknet markets.

Without --state and --district the command falls back to the defaults saved
with "agroinsight config set-geography", and then to a nationwide search.

Examples:
  agroinsight prices --commodity Wheat
  agroinsight prices --commodity Onion --state Maharashtra --district Nashik
  agroinsight prices --commodity Rice --state Punjab --sort asc --page 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if commodity == "" {
				return fmt.Errorf("--commodity flag is required")
			}

			direction, err := market.ParseSortDirection(sortOrder)
			if err != nil {
				return fmt.Errorf("--sort must be one of none, asc, desc")
			}

			if state == "" && district == "" {
				userCfg := loadUserConfig()
				state, district = userCfg.DefaultState, userCfg.DefaultDistrict
			}

			response, err := runQuery(cmd.Context(), &pricing.GetCurrentPricesQuery{
				Commodity: commodity,
				State:     state,
				District:  district,
				Sort:      direction,
				Page:      page,
				PageSize:  pageSize,
			})
			if err != nil {
				return err
			}

			result, ok := response.(*pricing.GetCurrentPricesResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", response)
			}

			if outputJSON {
				return printJSON(result)
			}
			printPrices(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&commodity, "commodity", "", "Commodity name, e.g. Wheat (required)")
	cmd.Flags().StringVar(&state, "state", "", "State name")
	cmd.Flags().StringVar(&district, "district", "", "District name (requires --state)")
	cmd.Flags().StringVar(&sortOrder, "sort", "desc", "Sort by modal price: none, asc or desc")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", pricing.DefaultPageSize, "Records per page")

	return cmd
}

func printPrices(result *pricing.GetCurrentPricesResponse) {
	if result.Status != pricing.StatusOK {
		fmt.Printf("No prices for %s: %s\n", result.Commodity.Name, result.Status)
		return
	}

	fmt.Printf("%s prices %s to %s\n", result.Commodity.Name, result.Window.From, result.Window.To)
	fmt.Printf("Markets priced: %d of %d queried\n\n", result.Stats.MarketsPriced, result.Stats.MarketsQueried)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MARKET\tDISTRICT\tSTATE\tDATE\tMODAL\tMIN\tMAX")
	fmt.Fprintln(w, "------\t--------\t-----\t----\t-----\t---\t---")
	for _, r := range result.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.MarketName,
			valueOrDash(r.DistrictName),
			valueOrDash(r.StateName),
			r.Date,
			formatPrice(r.ModalPrice),
			formatPrice(r.MinPrice),
			formatPrice(r.MaxPrice),
		)
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d records)\n", result.Page, result.TotalPages, result.Count)
	if result.BestPrice != nil {
		fmt.Printf("Best price: %s at %s\n", formatPrice(result.BestPrice.ModalPrice), result.BestPrice.MarketName)
	}
}
