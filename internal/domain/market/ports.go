package market

import "context"

// PriceWindow is an inclusive date range in YYYY-MM-DD form
type PriceWindow struct {
	From string
	To   string
}

// PriceQuery scopes a price series lookup
type PriceQuery struct {
	CommodityID int
	StateID     int
	DistrictIDs []int
	MarketIDs   []int
	Window      PriceWindow
}

// CatalogGateway is the single-attempt upstream catalog API
type CatalogGateway interface {
	FetchCommodities(ctx context.Context) ([]Commodity, error)
	FetchGeographies(ctx context.Context) ([]Geography, error)
	FetchMarkets(ctx context.Context, commodityID, stateID, districtID int) ([]Market, error)
	FetchPrices(ctx context.Context, q PriceQuery) ([]RawPrice, error)
}

// MarketSource is what the fan-out aggregator needs from the catalog
type MarketSource interface {
	Markets(ctx context.Context, commodityID, stateID, districtID int) ([]Market, error)
	Prices(ctx context.Context, q PriceQuery) ([]RawPrice, error)
}
