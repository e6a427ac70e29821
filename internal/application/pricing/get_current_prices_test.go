package pricing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/application/catalog"
	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

type outcomeSpy struct {
	statuses []string
	best     map[string]float64
}

func (s *outcomeSpy) RecordOutcome(status string) { s.statuses = append(s.statuses, status) }
func (s *outcomeSpy) RecordBestPrice(commodity string, price float64) {
	if s.best == nil {
		s.best = map[string]float64{}
	}
	s.best[commodity] = price
}

func newPricesHandler(gateway *helpers.MockCatalogGateway, recorder pricing.OutcomeRecorder) *pricing.GetCurrentPricesHandler {
	clock := shared.NewMockClock(today)
	svc := newCatalogService(gateway, clock)
	aggregator := pricing.NewAggregator(svc, clock, pricing.DefaultLimits(), nil)
	return pricing.NewGetCurrentPricesHandler(catalog.NewResolver(svc), aggregator, recorder)
}

func send(t *testing.T, h *pricing.GetCurrentPricesHandler, q *pricing.GetCurrentPricesQuery) (*pricing.GetCurrentPricesResponse, error) {
	t.Helper()
	resp, err := h.Handle(context.Background(), q)
	if err != nil {
		return nil, err
	}
	return resp.(*pricing.GetCurrentPricesResponse), nil
}

func TestGetCurrentPrices_DistrictScopeSortedDescending(t *testing.T) {
	// Arrange
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)
	gateway.SetMarkets(helpers.PuneID,
		market.Market{ID: 1, Name: "Pune APMC"},
		market.Market{ID: 2, Name: "Pimpri"},
		market.Market{ID: 3, Name: "Manchar"},
	)
	gateway.SetPrice(1, "2024-06-10", 2200)
	gateway.SetPrice(2, "2024-06-10", 2450)
	gateway.SetPrice(3, "2024-06-09", 2100)
	spy := &outcomeSpy{}
	handler := newPricesHandler(gateway, spy)

	// Act
	resp, err := send(t, handler, &pricing.GetCurrentPricesQuery{
		Commodity: "Wheat",
		State:     "Maharashtra",
		District:  "Pune",
		Sort:      market.SortDescending,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, pricing.StatusOK, resp.Status)
	require.Len(t, gateway.MarketCalls(), 1)
	assert.Equal(t, helpers.MarketsCall{CommodityID: helpers.WheatID, StateID: helpers.MaharashtraID, DistrictID: helpers.PuneID}, gateway.MarketCalls()[0])
	assert.Len(t, gateway.PriceCalls(), 3)
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "Pimpri", resp.Records[0].MarketName)
	assert.Equal(t, "Manchar", resp.Records[2].MarketName)
	require.NotNil(t, resp.BestPrice)
	assert.Equal(t, 2450.0, resp.BestPrice.ModalPrice)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, []string{"ok"}, spy.statuses)
	assert.Equal(t, 2450.0, spy.best["Wheat"])
}

func TestGetCurrentPrices_UnknownStateMakesNoFanoutCalls(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)
	spy := &outcomeSpy{}

	_, err := send(t, newPricesHandler(gateway, spy), &pricing.GetCurrentPricesQuery{Commodity: "wheat", State: "Atlantis"})

	var nf *market.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, market.KindState, nf.Kind)
	assert.Empty(t, gateway.MarketCalls())
	assert.Empty(t, gateway.PriceCalls())
	assert.Equal(t, []string{"state_not_found"}, spy.statuses)
}

func TestGetCurrentPrices_UnknownCommodity(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)

	_, err := send(t, newPricesHandler(gateway, nil), &pricing.GetCurrentPricesQuery{Commodity: "Saffron"})

	var nf *market.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, market.KindCommodity, nf.Kind)
	assert.Equal(t, pricing.StatusCommodityNotFound, pricing.StatusForNotFound(nf))
	assert.Equal(t, 0, gateway.GeographyCalls())
}

func TestGetCurrentPrices_StateWithoutDistricts(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	gateway.SetCommodities(market.Commodity{ID: helpers.WheatID, Name: "Wheat"})
	gateway.SetGeographies(market.Geography{StateID: 30, StateName: "Goa"})

	resp, err := send(t, newPricesHandler(gateway, nil), &pricing.GetCurrentPricesQuery{Commodity: "Wheat", State: "Goa"})

	require.NoError(t, err)
	assert.Equal(t, pricing.StatusNoGeographies, resp.Status)
	assert.Empty(t, resp.Records)
	assert.Empty(t, gateway.MarketCalls())
}

func TestGetCurrentPrices_NoMarkets(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)

	resp, err := send(t, newPricesHandler(gateway, nil), &pricing.GetCurrentPricesQuery{Commodity: "Wheat", State: "Maharashtra"})

	require.NoError(t, err)
	assert.Equal(t, pricing.StatusNoMarkets, resp.Status)
	assert.Len(t, gateway.MarketCalls(), 2)
	assert.Empty(t, gateway.PriceCalls())
	assert.Nil(t, resp.BestPrice)
}

func TestGetCurrentPrices_PaginatesAndClampsPage(t *testing.T) {
	// Arrange
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)
	markets := make([]market.Market, 5)
	for i := range markets {
		markets[i] = market.Market{ID: i + 1, Name: "M"}
		gateway.SetPrice(i+1, "2024-06-10", float64(1000+i*100))
	}
	gateway.SetMarkets(helpers.PuneID, markets...)

	// Act
	resp, err := send(t, newPricesHandler(gateway, nil), &pricing.GetCurrentPricesQuery{
		Commodity: "Wheat",
		State:     "Maharashtra",
		District:  "Pune",
		Sort:      market.SortAscending,
		Page:      9,
		PageSize:  2,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 3, resp.Page)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, 1400.0, resp.Records[0].ModalPrice)
	assert.Equal(t, 1400.0, resp.BestPrice.ModalPrice)
	assert.Equal(t, 5, resp.Count)
}

func TestGetCurrentPrices_Validation(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	handler := newPricesHandler(gateway, nil)

	_, err := send(t, handler, &pricing.GetCurrentPricesQuery{})
	var ve *shared.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "commodity", ve.Field)

	_, err = send(t, handler, &pricing.GetCurrentPricesQuery{Commodity: "Wheat", District: "Pune"})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "district", ve.Field)
}
