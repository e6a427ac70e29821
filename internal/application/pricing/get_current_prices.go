package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// DefaultPageSize applies when a query leaves the page size unset
const DefaultPageSize = 10

// Status names the pipeline checkpoint a price query stopped at
type Status string

const (
	StatusOK                Status = "ok"
	StatusCommodityNotFound Status = "commodity_not_found"
	StatusStateNotFound     Status = "state_not_found"
	StatusDistrictNotFound  Status = "district_not_found"
	StatusNoGeographies     Status = "no_geographies"
	StatusNoMarkets         Status = "no_markets"
	StatusFailed            Status = "failed"
)

// StatusForNotFound maps a resolution failure onto its status
func StatusForNotFound(err *market.NotFoundError) Status {
	switch err.Kind {
	case market.KindState:
		return StatusStateNotFound
	case market.KindDistrict:
		return StatusDistrictNotFound
	default:
		return StatusCommodityNotFound
	}
}

// CatalogResolver is the slice of the catalog the pipeline resolves names against
type CatalogResolver interface {
	ResolveCommodity(ctx context.Context, name string) (market.Commodity, error)
	ResolveGeography(ctx context.Context, state, district string) (market.Geography, error)
	Geographies(ctx context.Context) ([]market.Geography, error)
}

// OutcomeRecorder receives pipeline outcomes for metrics
type OutcomeRecorder interface {
	RecordOutcome(status string)
	RecordBestPrice(commodity string, price float64)
}

// GetCurrentPricesQuery asks for the latest price of a commodity, optionally
// narrowed to a state and district
type GetCurrentPricesQuery struct {
	Commodity string
	State     string
	District  string
	Sort      market.SortDirection
	Page      int
	PageSize  int
}

// GetCurrentPricesResponse carries one page of ranked records. Status is
// StatusOK when records were found; otherwise it names the empty checkpoint.
type GetCurrentPricesResponse struct {
	Status     Status
	Commodity  market.Commodity
	Records    []market.PriceRecord
	Count      int
	BestPrice  *market.PriceRecord
	Page       int
	PageSize   int
	TotalPages int
	Window     market.PriceWindow
	Stats      Stats
}

// GetCurrentPricesHandler runs resolve -> candidates -> aggregate -> rank
type GetCurrentPricesHandler struct {
	resolver   CatalogResolver
	aggregator *Aggregator
	recorder   OutcomeRecorder
}

// NewGetCurrentPricesHandler creates the handler; a nil recorder disables metrics
func NewGetCurrentPricesHandler(resolver CatalogResolver, aggregator *Aggregator, recorder OutcomeRecorder) *GetCurrentPricesHandler {
	if recorder == nil {
		recorder = noopOutcomes{}
	}
	return &GetCurrentPricesHandler{resolver: resolver, aggregator: aggregator, recorder: recorder}
}

// Handle executes the query. Unresolvable names return a *market.NotFoundError;
// empty geography or market sets return a response with the matching status.
func (h *GetCurrentPricesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCurrentPricesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	response, err := h.run(ctx, query)
	if err != nil {
		var nf *market.NotFoundError
		if errors.As(err, &nf) {
			h.recorder.RecordOutcome(string(StatusForNotFound(nf)))
		} else {
			h.recorder.RecordOutcome(string(StatusFailed))
		}
		return nil, err
	}
	h.recorder.RecordOutcome(string(response.Status))
	return response, nil
}

func (h *GetCurrentPricesHandler) run(ctx context.Context, query *GetCurrentPricesQuery) (*GetCurrentPricesResponse, error) {
	if strings.TrimSpace(query.Commodity) == "" {
		return nil, shared.NewValidationError("commodity", "commodity is required")
	}
	if strings.TrimSpace(query.State) == "" && strings.TrimSpace(query.District) != "" {
		return nil, shared.NewValidationError("district", "district requires a state")
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	logger := logging.FromContext(ctx)

	commodity, err := h.resolver.ResolveCommodity(ctx, query.Commodity)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve commodity: %w", err)
	}

	scope, err := h.resolveScope(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve geography: %w", err)
	}

	catalog, err := h.resolver.Geographies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load geographies: %w", err)
	}

	response := &GetCurrentPricesResponse{
		Commodity: commodity,
		Records:   []market.PriceRecord{},
		Page:      1,
		PageSize:  pageSize,
		Window:    h.aggregator.Window(),
	}

	candidates := market.SelectCandidates(catalog, scope)
	if len(candidates) == 0 {
		logger.Log(logging.LevelInfo, "No candidate geographies", map[string]interface{}{
			"commodity": commodity.Name,
			"state":     query.State,
		})
		response.Status = StatusNoGeographies
		return response, nil
	}

	result, err := h.aggregator.Aggregate(ctx, commodity, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate prices: %w", err)
	}
	response.Stats = result.Stats
	response.Window = result.Window
	if result.NoMarkets {
		response.Status = StatusNoMarkets
		return response, nil
	}

	ranked := market.SortByPrice(result.Records, query.Sort)
	if best, ok := market.BestPrice(ranked); ok {
		response.BestPrice = &best
		h.recorder.RecordBestPrice(commodity.Name, best.ModalPrice)
	}

	response.Count = len(ranked)
	response.TotalPages = market.TotalPages(len(ranked), pageSize)
	response.Page = market.ClampPage(query.Page, len(ranked), pageSize)
	page, err := market.Paginate(ranked, pageSize, response.Page)
	if err != nil {
		return nil, err
	}
	response.Records = page
	response.Status = StatusOK
	return response, nil
}

func (h *GetCurrentPricesHandler) resolveScope(ctx context.Context, query *GetCurrentPricesQuery) (market.Scope, error) {
	var scope market.Scope
	if strings.TrimSpace(query.State) == "" {
		return scope, nil
	}

	state, err := h.resolver.ResolveGeography(ctx, query.State, "")
	if err != nil {
		return scope, err
	}
	scope.State = &state

	if strings.TrimSpace(query.District) == "" {
		return scope, nil
	}
	district, err := h.resolver.ResolveGeography(ctx, query.State, query.District)
	if err != nil {
		return scope, err
	}
	scope.District = &district
	return scope, nil
}

type noopOutcomes struct{}

func (noopOutcomes) RecordOutcome(status string)                     {}
func (noopOutcomes) RecordBestPrice(commodity string, price float64) {}
