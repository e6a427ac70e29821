package catalog

import (
	"context"
	"fmt"

	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// ListCommoditiesQuery - Query for the commodity catalog
type ListCommoditiesQuery struct{}

// ListCommoditiesResponse - Commodity catalog
type ListCommoditiesResponse struct {
	Commodities []market.Commodity
	Cached      bool
}

// ListGeographiesQuery - Query for the state/district catalog
type ListGeographiesQuery struct{}

// ListGeographiesResponse - State/district catalog
type ListGeographiesResponse struct {
	Geographies []market.Geography
	Cached      bool
}

// ListMarketsQuery - Query for markets of a commodity in a district
type ListMarketsQuery struct {
	CommodityID int
	StateID     int
	DistrictID  int
}

// ListMarketsResponse - Markets for the requested triple
type ListMarketsResponse struct {
	Markets []market.Market
}

// ListPricesQuery - Query for a raw price series
type ListPricesQuery struct {
	Query market.PriceQuery
}

// ListPricesResponse - Raw price rows
type ListPricesResponse struct {
	Prices []market.RawPrice
}

// QueryHandler serves the catalog passthrough queries from the cached service
type QueryHandler struct {
	service *Service
}

// NewQueryHandler creates a catalog query handler
func NewQueryHandler(service *Service) *QueryHandler {
	return &QueryHandler{service: service}
}

// Handle dispatches on the concrete query type
func (h *QueryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	switch q := request.(type) {
	case *ListCommoditiesQuery:
		commodities, cached, err := h.service.Commodities(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list commodities: %w", err)
		}
		return &ListCommoditiesResponse{Commodities: commodities, Cached: cached}, nil

	case *ListGeographiesQuery:
		geographies, cached, err := h.service.Geographies(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list geographies: %w", err)
		}
		return &ListGeographiesResponse{Geographies: geographies, Cached: cached}, nil

	case *ListMarketsQuery:
		if q.CommodityID <= 0 || q.StateID <= 0 || q.DistrictID <= 0 {
			return nil, shared.NewValidationError("market", "commodity_id, state_id and district_id are required")
		}
		markets, err := h.service.Markets(ctx, q.CommodityID, q.StateID, q.DistrictID)
		if err != nil {
			return nil, fmt.Errorf("failed to list markets: %w", err)
		}
		return &ListMarketsResponse{Markets: markets}, nil

	case *ListPricesQuery:
		if q.Query.CommodityID <= 0 || q.Query.StateID <= 0 {
			return nil, shared.NewValidationError("prices", "commodity_id and state_id are required")
		}
		if q.Query.Window.From == "" || q.Query.Window.To == "" {
			return nil, shared.NewValidationError("prices", "from_date and to_date are required")
		}
		prices, err := h.service.Prices(ctx, q.Query)
		if err != nil {
			return nil, fmt.Errorf("failed to list prices: %w", err)
		}
		return &ListPricesResponse{Prices: prices}, nil
	}
	return nil, fmt.Errorf("invalid request type")
}
