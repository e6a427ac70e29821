package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/catalog"
	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

var today = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

var wheat = market.Commodity{ID: helpers.WheatID, Name: "Wheat"}

func newCatalogService(gateway market.CatalogGateway, clock shared.Clock) *catalog.Service {
	c := cache.New(cache.Options{Name: "catalog", DefaultTTL: 10 * time.Minute, Clock: clock})
	return catalog.NewService(gateway, c, 10*time.Minute)
}

func newAggregator(gateway *helpers.MockCatalogGateway) *pricing.Aggregator {
	clock := shared.NewMockClock(today)
	return pricing.NewAggregator(newCatalogService(gateway, clock), clock, pricing.DefaultLimits(), nil)
}

type fanoutSpy struct {
	calls    map[string]int
	failures map[string]int
	priced   int
}

func newFanoutSpy() *fanoutSpy {
	return &fanoutSpy{calls: map[string]int{}, failures: map[string]int{}}
}

func (s *fanoutSpy) RecordFanout(stage string, calls, failures int) {
	s.calls[stage] += calls
	s.failures[stage] += failures
}

func (s *fanoutSpy) RecordMarketsPriced(commodity string, count int) {
	s.priced += count
}

func TestAggregate_CapsGeographiesAndMarkets(t *testing.T) {
	// Arrange: 30 districts with 4 markets each
	gateway := helpers.NewMockCatalogGateway()
	candidates := helpers.DistrictGeographies(1, 100, 30)
	marketID := 1000
	for _, g := range candidates {
		markets := make([]market.Market, 4)
		for k := range markets {
			markets[k] = market.Market{ID: marketID, Name: "Market"}
			gateway.SetPrice(marketID, "2024-06-09", float64(marketID))
			marketID++
		}
		gateway.SetMarkets(g.DistrictID, markets...)
	}
	spy := newFanoutSpy()
	clock := shared.NewMockClock(today)
	aggregator := pricing.NewAggregator(newCatalogService(gateway, clock), clock, pricing.DefaultLimits(), spy)

	// Act
	result, err := aggregator.Aggregate(context.Background(), wheat, candidates)

	// Assert
	require.NoError(t, err)
	assert.Len(t, gateway.MarketCalls(), 20)
	assert.Len(t, gateway.PriceCalls(), 50)
	assert.Equal(t, 20, result.Stats.GeographiesQueried)
	assert.Equal(t, 80, result.Stats.MarketsDiscovered)
	assert.Equal(t, 50, result.Stats.MarketsQueried)
	assert.Len(t, result.Records, 50)
	assert.Equal(t, 20, spy.calls[pricing.StageMarkets])
	assert.Equal(t, 50, spy.calls[pricing.StagePrices])
	assert.Equal(t, 50, spy.priced)
}

func TestAggregate_OnlyFirstTwentyGeographiesQueried(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	candidates := helpers.DistrictGeographies(1, 100, 30)
	aggregator := newAggregator(gateway)

	_, err := aggregator.Aggregate(context.Background(), wheat, candidates)
	require.NoError(t, err)

	queried := map[int]bool{}
	for _, call := range gateway.MarketCalls() {
		queried[call.DistrictID] = true
	}
	for i, g := range candidates {
		assert.Equal(t, i < 20, queried[g.DistrictID], "district %d", g.DistrictID)
	}
}

func TestAggregate_FailingMarketLookupIsIsolated(t *testing.T) {
	// Arrange
	gateway := helpers.NewMockCatalogGateway()
	candidates := helpers.DistrictGeographies(1, 10, 3)
	gateway.SetMarkets(10, market.Market{ID: 1, Name: "A"})
	gateway.SetMarkets(11, market.Market{ID: 2, Name: "B"})
	gateway.SetMarkets(12, market.Market{ID: 3, Name: "C"})
	gateway.FailMarkets(11, errors.New("boom"))
	for id := 1; id <= 3; id++ {
		gateway.SetPrice(id, "2024-06-10", 2000)
	}
	logger := helpers.NewMockLogger()
	ctx := logging.WithLogger(context.Background(), logger)

	// Act
	result, err := newAggregator(gateway).Aggregate(ctx, wheat, candidates)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.MarketsDiscovered)
	assert.Equal(t, 1, result.Stats.FailedMarketLookups)
	names := []string{}
	for _, r := range result.Records {
		names = append(names, r.MarketName)
	}
	assert.ElementsMatch(t, []string{"A", "C"}, names)
	assert.Len(t, logger.EntriesAt(logging.LevelWarning), 1)
}

func TestAggregate_FailingPriceLookupIsIsolated(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	candidates := helpers.DistrictGeographies(1, 10, 1)
	gateway.SetMarkets(10, market.Market{ID: 1, Name: "A"}, market.Market{ID: 2, Name: "B"})
	gateway.SetPrice(1, "2024-06-10", 2100)
	gateway.FailPrices(2, errors.New("timeout"))

	result, err := newAggregator(gateway).Aggregate(context.Background(), wheat, candidates)

	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "A", result.Records[0].MarketName)
	assert.Equal(t, 1, result.Stats.FailedPriceLookups)
}

func TestAggregate_NoMarketsSkipsPriceStage(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	candidates := helpers.DistrictGeographies(1, 10, 2)

	result, err := newAggregator(gateway).Aggregate(context.Background(), wheat, candidates)

	require.NoError(t, err)
	assert.True(t, result.NoMarkets)
	assert.Empty(t, gateway.PriceCalls())
}

func TestAggregate_DropsMissingAndInvalidModalPrices(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	candidates := helpers.DistrictGeographies(1, 10, 1)
	gateway.SetMarkets(10,
		market.Market{ID: 1, Name: "valid"},
		market.Market{ID: 2, Name: "no modal"},
		market.Market{ID: 3, Name: "no rows"},
	)
	gateway.SetPrice(1, "2024-06-10", 1800)
	gateway.SetPrice(2, "2024-06-10", -1)

	result, err := newAggregator(gateway).Aggregate(context.Background(), wheat, candidates)

	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "valid", result.Records[0].MarketName)
	assert.Equal(t, 0, result.Stats.FailedPriceLookups)
}

func TestAggregate_TagsMarketsAndUsesTrailingWindow(t *testing.T) {
	// Arrange
	gateway := helpers.NewMockCatalogGateway()
	pune := market.Geography{StateID: helpers.MaharashtraID, StateName: "Maharashtra", DistrictID: helpers.PuneID, DistrictName: "Pune"}
	gateway.SetMarkets(helpers.PuneID, market.Market{ID: 501, Name: "Pune APMC"})
	gateway.SetPrice(501, "2024-06-08", 2350)

	// Act
	result, err := newAggregator(gateway).Aggregate(context.Background(), wheat, []market.Geography{pune})

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	record := result.Records[0]
	assert.Equal(t, "Pune", record.DistrictName)
	assert.Equal(t, "Maharashtra", record.StateName)
	assert.Equal(t, "Wheat", record.CommodityName)
	assert.Equal(t, 2350.0, record.ModalPrice)

	calls := gateway.PriceCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, market.PriceWindow{From: "2024-06-04", To: "2024-06-10"}, calls[0].Window)
	assert.Equal(t, []int{helpers.PuneID}, calls[0].DistrictIDs)
	assert.Equal(t, helpers.MaharashtraID, calls[0].StateID)
}

func TestAggregate_CancelledContextFails(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAggregator(gateway).Aggregate(ctx, wheat, helpers.DistrictGeographies(1, 10, 2))

	assert.ErrorIs(t, err, context.Canceled)
}
