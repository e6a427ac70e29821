package helpers

import (
	"context"
	"sync"

	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
)

// MarketsCall records one FetchMarkets invocation
type MarketsCall struct {
	CommodityID int
	StateID     int
	DistrictID  int
}

// MockCatalogGateway is a test double for market.CatalogGateway with call
// tracking and per-district / per-market error injection
type MockCatalogGateway struct {
	mu sync.Mutex

	commodities []market.Commodity
	geographies []market.Geography
	markets     map[int][]market.Market   // districtID -> markets
	prices      map[int][]market.RawPrice // marketID -> rows

	// Call tracking
	commodityCalls int
	geographyCalls int
	marketCalls    []MarketsCall
	priceCalls     []market.PriceQuery

	// Error injection
	err          error
	marketErrors map[int]error // districtID -> error
	priceErrors  map[int]error // marketID -> error
}

// NewMockCatalogGateway creates an empty mock catalog
func NewMockCatalogGateway() *MockCatalogGateway {
	return &MockCatalogGateway{
		markets:      make(map[int][]market.Market),
		prices:       make(map[int][]market.RawPrice),
		marketErrors: make(map[int]error),
		priceErrors:  make(map[int]error),
	}
}

// SetCommodities configures the commodity catalog
func (m *MockCatalogGateway) SetCommodities(commodities ...market.Commodity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commodities = commodities
}

// SetGeographies configures the geography catalog
func (m *MockCatalogGateway) SetGeographies(geographies ...market.Geography) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geographies = geographies
}

// SetMarkets configures the markets returned for a district
func (m *MockCatalogGateway) SetMarkets(districtID int, markets ...market.Market) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markets[districtID] = markets
}

// SetPrice configures a single price row for a market; a negative price
// leaves the modal price absent
func (m *MockCatalogGateway) SetPrice(marketID int, date string, modal float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := market.RawPrice{Date: date}
	if modal >= 0 {
		p := modal
		row.ModalPrice = &p
	}
	m.prices[marketID] = []market.RawPrice{row}
}

// SetPriceRows configures the raw rows returned for a market
func (m *MockCatalogGateway) SetPriceRows(marketID int, rows ...market.RawPrice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[marketID] = rows
}

// SetError makes every call fail with err
func (m *MockCatalogGateway) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FailMarkets makes the market lookup for a district fail
func (m *MockCatalogGateway) FailMarkets(districtID int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marketErrors[districtID] = err
}

// FailPrices makes the price lookup for a market fail
func (m *MockCatalogGateway) FailPrices(marketID int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceErrors[marketID] = err
}

// FetchCommodities implements market.CatalogGateway
func (m *MockCatalogGateway) FetchCommodities(ctx context.Context) ([]market.Commodity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commodityCalls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]market.Commodity{}, m.commodities...), nil
}

// FetchGeographies implements market.CatalogGateway
func (m *MockCatalogGateway) FetchGeographies(ctx context.Context) ([]market.Geography, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geographyCalls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]market.Geography{}, m.geographies...), nil
}

// FetchMarkets implements market.CatalogGateway
func (m *MockCatalogGateway) FetchMarkets(ctx context.Context, commodityID, stateID, districtID int) ([]market.Market, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marketCalls = append(m.marketCalls, MarketsCall{CommodityID: commodityID, StateID: stateID, DistrictID: districtID})
	if m.err != nil {
		return nil, m.err
	}
	if err, ok := m.marketErrors[districtID]; ok {
		return nil, err
	}
	return append([]market.Market{}, m.markets[districtID]...), nil
}

// FetchPrices implements market.CatalogGateway
func (m *MockCatalogGateway) FetchPrices(ctx context.Context, q market.PriceQuery) ([]market.RawPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.priceCalls = append(m.priceCalls, q)
	if m.err != nil {
		return nil, m.err
	}
	// the aggregator always asks for a single market; a query without one
	// matches nothing
	if len(q.MarketIDs) == 0 {
		return []market.RawPrice{}, nil
	}
	if err, ok := m.priceErrors[q.MarketIDs[0]]; ok {
		return nil, err
	}
	return append([]market.RawPrice{}, m.prices[q.MarketIDs[0]]...), nil
}

// CommodityCalls returns the number of FetchCommodities calls
func (m *MockCatalogGateway) CommodityCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commodityCalls
}

// GeographyCalls returns the number of FetchGeographies calls
func (m *MockCatalogGateway) GeographyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.geographyCalls
}

// MarketCalls returns the recorded FetchMarkets calls
func (m *MockCatalogGateway) MarketCalls() []MarketsCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MarketsCall{}, m.marketCalls...)
}

// PriceCalls returns the recorded FetchPrices calls
func (m *MockCatalogGateway) PriceCalls() []market.PriceQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]market.PriceQuery{}, m.priceCalls...)
}
