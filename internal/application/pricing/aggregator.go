// Package pricing answers "what is the current price of this crop near me":
// it fans out over the catalog to discover markets, fetches each market's
// latest price in a trailing window and ranks the result.
package pricing

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// Fan-out stage names used in logs and metrics
const (
	StageMarkets = "markets"
	StagePrices  = "prices"
)

const dateLayout = "2006-01-02"

// Limits bounds the fan-out. The caps are cost controls against the catalog
// rate limit, not correctness requirements.
type Limits struct {
	MaxGeographies int
	MaxMarkets     int
	WindowDays     int
	Concurrency    int
	RequestTimeout time.Duration
}

// DefaultLimits returns the production fan-out bounds
func DefaultLimits() Limits {
	return Limits{
		MaxGeographies: 20,
		MaxMarkets:     50,
		WindowDays:     7,
		Concurrency:    10,
		RequestTimeout: 20 * time.Second,
	}
}

// FanoutRecorder receives per-stage fan-out statistics
type FanoutRecorder interface {
	RecordFanout(stage string, calls, failures int)
	RecordMarketsPriced(commodity string, count int)
}

// Stats describes one aggregation run
type Stats struct {
	GeographiesQueried  int `json:"geographies_queried"`
	MarketsDiscovered   int `json:"markets_discovered"`
	MarketsQueried      int `json:"markets_queried"`
	MarketsPriced       int `json:"markets_priced"`
	FailedMarketLookups int `json:"failed_market_lookups"`
	FailedPriceLookups  int `json:"failed_price_lookups"`
}

// Result is the aggregator output. NoMarkets is set when discovery came back
// empty and the price stage never ran.
type Result struct {
	Records   []market.PriceRecord
	Window    market.PriceWindow
	Stats     Stats
	NoMarkets bool
}

// Aggregator discovers markets for a commodity across candidate geographies
// and collects their latest price. Per-branch failures are absorbed.
type Aggregator struct {
	source   market.MarketSource
	clock    shared.Clock
	limits   Limits
	recorder FanoutRecorder
}

// NewAggregator creates an aggregator; a nil recorder disables metrics
func NewAggregator(source market.MarketSource, clock shared.Clock, limits Limits, recorder FanoutRecorder) *Aggregator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	defaults := DefaultLimits()
	if limits.MaxGeographies <= 0 {
		limits.MaxGeographies = defaults.MaxGeographies
	}
	if limits.MaxMarkets <= 0 {
		limits.MaxMarkets = defaults.MaxMarkets
	}
	if limits.WindowDays <= 0 {
		limits.WindowDays = defaults.WindowDays
	}
	if limits.Concurrency <= 0 {
		limits.Concurrency = defaults.Concurrency
	}
	return &Aggregator{source: source, clock: clock, limits: limits, recorder: recorder}
}

// Window returns the trailing price window ending today (IST), inclusive
func (a *Aggregator) Window() market.PriceWindow {
	today := shared.Today(a.clock)
	from := today.AddDate(0, 0, -(a.limits.WindowDays - 1))
	return market.PriceWindow{From: from.Format(dateLayout), To: today.Format(dateLayout)}
}

// Aggregate runs both fan-out stages. Each stage waits for every branch to
// settle before the next begins. Only parent context cancellation fails the
// run; branch errors shrink the result instead.
func (a *Aggregator) Aggregate(ctx context.Context, commodity market.Commodity, candidates []market.Geography) (*Result, error) {
	logger := logging.With(logging.FromContext(ctx), map[string]interface{}{
		"commodity": commodity.Name,
	})

	if len(candidates) > a.limits.MaxGeographies {
		logger.Log(logging.LevelDebug, "Capping candidate geographies", map[string]interface{}{
			"candidates": len(candidates),
			"cap":        a.limits.MaxGeographies,
		})
		candidates = candidates[:a.limits.MaxGeographies]
	}

	result := &Result{Window: a.Window(), Records: []market.PriceRecord{}}
	result.Stats.GeographiesQueried = len(candidates)

	markets, failed, err := a.discoverMarkets(ctx, logger, commodity, candidates)
	if err != nil {
		return nil, err
	}
	result.Stats.MarketsDiscovered = len(markets)
	result.Stats.FailedMarketLookups = failed
	a.recorder.RecordFanout(StageMarkets, len(candidates), failed)

	if len(markets) == 0 {
		result.NoMarkets = true
		return result, nil
	}

	if len(markets) > a.limits.MaxMarkets {
		logger.Log(logging.LevelDebug, "Capping discovered markets", map[string]interface{}{
			"markets": len(markets),
			"cap":     a.limits.MaxMarkets,
		})
		markets = markets[:a.limits.MaxMarkets]
	}
	result.Stats.MarketsQueried = len(markets)

	records, failed, err := a.collectPrices(ctx, logger, commodity, markets, result.Window)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Stats.MarketsPriced = len(records)
	result.Stats.FailedPriceLookups = failed
	a.recorder.RecordFanout(StagePrices, len(markets), failed)
	a.recorder.RecordMarketsPriced(commodity.Name, len(records))

	logger.Log(logging.LevelInfo, "Price aggregation complete", map[string]interface{}{
		"geographies":   result.Stats.GeographiesQueried,
		"markets":       result.Stats.MarketsDiscovered,
		"priced":        result.Stats.MarketsPriced,
		"market_errors": result.Stats.FailedMarketLookups,
		"price_errors":  result.Stats.FailedPriceLookups,
		"window_from":   result.Window.From,
		"window_to":     result.Window.To,
	})
	return result, nil
}

func (a *Aggregator) discoverMarkets(ctx context.Context, logger logging.Logger, commodity market.Commodity, candidates []market.Geography) ([]market.Market, int, error) {
	perGeography := make([][]market.Market, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.limits.Concurrency)
	for i, geography := range candidates {
		g.Go(func() error {
			callCtx, cancel := a.callContext(gctx)
			defer cancel()

			markets, err := a.source.Markets(callCtx, commodity.ID, geography.StateID, geography.DistrictID)
			if err != nil {
				errs[i] = err
				logger.Log(logging.LevelWarning, "Market lookup failed, omitting geography", map[string]interface{}{
					"state":    geography.StateName,
					"district": geography.DistrictName,
					"error":    err.Error(),
				})
				return nil
			}
			tagged := make([]market.Market, len(markets))
			for j, m := range markets {
				tagged[j] = m.InGeography(geography)
			}
			perGeography[i] = tagged
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var flat []market.Market
	for _, markets := range perGeography {
		flat = append(flat, markets...)
	}
	return flat, countErrors(errs), nil
}

func (a *Aggregator) collectPrices(ctx context.Context, logger logging.Logger, commodity market.Commodity, markets []market.Market, window market.PriceWindow) ([]market.PriceRecord, int, error) {
	perMarket := make([]*market.PriceRecord, len(markets))
	errs := make([]error, len(markets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.limits.Concurrency)
	for i, m := range markets {
		g.Go(func() error {
			callCtx, cancel := a.callContext(gctx)
			defer cancel()

			rows, err := a.source.Prices(callCtx, market.PriceQuery{
				CommodityID: commodity.ID,
				StateID:     m.StateID,
				DistrictIDs: []int{m.DistrictID},
				MarketIDs:   []int{m.ID},
				Window:      window,
			})
			if err != nil {
				errs[i] = err
				logger.Log(logging.LevelWarning, "Price lookup failed, omitting market", map[string]interface{}{
					"market":   m.Name,
					"district": m.DistrictName,
					"error":    err.Error(),
				})
				return nil
			}
			// the upstream returns one aggregate row per market per window
			if len(rows) == 0 || !rows[0].Valid() {
				return nil
			}
			record := toRecord(rows[0], m, commodity)
			perMarket[i] = &record
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	records := make([]market.PriceRecord, 0, len(markets))
	for _, r := range perMarket {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records, countErrors(errs), nil
}

func (a *Aggregator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.limits.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.limits.RequestTimeout)
}

func toRecord(row market.RawPrice, m market.Market, commodity market.Commodity) market.PriceRecord {
	return market.PriceRecord{
		Date:          row.Date,
		ModalPrice:    *row.ModalPrice,
		MinPrice:      valueOr(row.MinPrice, 0),
		MaxPrice:      valueOr(row.MaxPrice, 0),
		MarketID:      m.ID,
		MarketName:    m.Name,
		DistrictName:  m.DistrictName,
		StateName:     m.StateName,
		CommodityID:   commodity.ID,
		CommodityName: commodity.Name,
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func countErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}

type noopRecorder struct{}

func (noopRecorder) RecordFanout(stage string, calls, failures int) {}
func (noopRecorder) RecordMarketsPriced(commodity string, count int) {}
