package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/catalog"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	"github.com/andrescamacho/agroinsight-go/internal/application/setup"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

type currentPricesContext struct {
	gateway     *helpers.MockCatalogGateway
	clock       *shared.MockClock
	commodities []market.Commodity
	geographies []market.Geography

	response *pricing.GetCurrentPricesResponse
	err      error
}

func InitializeCurrentPricesScenario(ctx *godog.ScenarioContext) {
	c := &currentPricesContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the catalog lists commodity "([^"]*)" with id (\d+)$`, c.theCatalogListsCommodity)
	ctx.Step(`^the catalog lists state "([^"]*)" with id (\d+)$`, c.theCatalogListsState)
	ctx.Step(`^the catalog lists district "([^"]*)" with id (\d+) in state (\d+)$`, c.theCatalogListsDistrict)
	ctx.Step(`^today is "([^"]*)"$`, c.todayIs)
	ctx.Step(`^district (\d+) has markets:$`, c.districtHasMarkets)
	ctx.Step(`^district (\d+) fails to list markets$`, c.districtFailsToListMarkets)

	// When steps
	ctx.Step(`^I request current prices for "([^"]*)" in state "([^"]*)" and district "([^"]*)" sorted "([^"]*)"$`, c.iRequestPricesForDistrict)
	ctx.Step(`^I request current prices for "([^"]*)" in state "([^"]*)" sorted "([^"]*)"$`, c.iRequestPricesForStateSorted)
	ctx.Step(`^I request current prices for "([^"]*)" in state "([^"]*)"$`, c.iRequestPricesForState)

	// Then steps
	ctx.Step(`^the price query should succeed with status "([^"]*)"$`, c.thePriceQueryShouldSucceedWithStatus)
	ctx.Step(`^the price query should fail because the (commodity|state|district) was not found$`, c.thePriceQueryShouldFailWithNotFound)
	ctx.Step(`^markets should have been looked up for district (\d+) only$`, c.marketsLookedUpForDistrictOnly)
	ctx.Step(`^(\d+) price lookups should have been made$`, c.nPriceLookupsShouldHaveBeenMade)
	ctx.Step(`^no price lookups should have been made$`, c.noPriceLookups)
	ctx.Step(`^no market or price lookups should have been made$`, c.noMarketOrPriceLookups)
	ctx.Step(`^the first price record should be market "([^"]*)" at (\d+(?:\.\d+)?)$`, c.theFirstRecordShouldBe)
	ctx.Step(`^the best price should be (\d+(?:\.\d+)?) at "([^"]*)"$`, c.theBestPriceShouldBe)
	ctx.Step(`^(\d+) price records? should be returned$`, c.nPriceRecordsReturned)
	ctx.Step(`^(\d+) market lookups? should have been reported as failed$`, c.nMarketLookupsFailed)
}

func (c *currentPricesContext) reset() {
	c.gateway = helpers.NewMockCatalogGateway()
	c.clock = shared.NewMockClock(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	c.commodities = nil
	c.geographies = nil
	c.response = nil
	c.err = nil
}

func (c *currentPricesContext) theCatalogListsCommodity(name string, id int) error {
	c.commodities = append(c.commodities, market.Commodity{ID: id, Name: name})
	c.gateway.SetCommodities(c.commodities...)
	return nil
}

func (c *currentPricesContext) theCatalogListsState(name string, id int) error {
	c.geographies = append(c.geographies, market.Geography{StateID: id, StateName: name})
	c.gateway.SetGeographies(c.geographies...)
	return nil
}

func (c *currentPricesContext) theCatalogListsDistrict(name string, id, stateID int) error {
	stateName := ""
	for _, g := range c.geographies {
		if g.StateID == stateID && !g.IsDistrictLevel() {
			stateName = g.StateName
		}
	}
	if stateName == "" {
		return fmt.Errorf("state %d must be listed before its districts", stateID)
	}
	c.geographies = append(c.geographies, market.Geography{
		StateID:      stateID,
		StateName:    stateName,
		DistrictID:   id,
		DistrictName: name,
	})
	c.gateway.SetGeographies(c.geographies...)
	return nil
}

func (c *currentPricesContext) todayIs(date string) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	c.clock.SetTime(day.Add(9 * time.Hour))
	return nil
}

func (c *currentPricesContext) districtHasMarkets(districtID int, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("market table needs a header and at least one row")
	}

	var markets []market.Market
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != 4 {
			return fmt.Errorf("expected 4 columns (id, name, date, modal), got %d", len(row.Cells))
		}
		id, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return fmt.Errorf("invalid market id %q: %w", row.Cells[0].Value, err)
		}
		modal, err := strconv.ParseFloat(row.Cells[3].Value, 64)
		if err != nil {
			return fmt.Errorf("invalid modal price %q: %w", row.Cells[3].Value, err)
		}
		markets = append(markets, market.Market{ID: id, Name: row.Cells[1].Value})
		c.gateway.SetPrice(id, row.Cells[2].Value, modal)
	}
	c.gateway.SetMarkets(districtID, markets...)
	return nil
}

func (c *currentPricesContext) districtFailsToListMarkets(districtID int) error {
	c.gateway.FailMarkets(districtID, errors.New("upstream timeout"))
	return nil
}

func (c *currentPricesContext) mediator() (mediator.Mediator, error) {
	catalogCache := cache.New(cache.Options{Name: "catalog", DefaultTTL: 10 * time.Minute, Clock: c.clock})
	service := catalog.NewService(c.gateway, catalogCache, 10*time.Minute)
	aggregator := pricing.NewAggregator(service, c.clock, pricing.DefaultLimits(), nil)

	registry := setup.NewHandlerRegistry(setup.Dependencies{
		Catalog:    service,
		Aggregator: aggregator,
		Clock:      c.clock,
	})
	return registry.CreateConfiguredMediator()
}

func (c *currentPricesContext) send(query *pricing.GetCurrentPricesQuery) error {
	m, err := c.mediator()
	if err != nil {
		return fmt.Errorf("failed to build mediator: %w", err)
	}

	response, err := m.Send(context.Background(), query)
	c.err = err
	if err == nil {
		var ok bool
		c.response, ok = response.(*pricing.GetCurrentPricesResponse)
		if !ok {
			return fmt.Errorf("unexpected response type: %T", response)
		}
	}
	return nil
}

func (c *currentPricesContext) iRequestPricesForDistrict(commodity, state, district, sort string) error {
	direction, err := market.ParseSortDirection(sort)
	if err != nil {
		return err
	}
	return c.send(&pricing.GetCurrentPricesQuery{
		Commodity: commodity,
		State:     state,
		District:  district,
		Sort:      direction,
		Page:      1,
	})
}

func (c *currentPricesContext) iRequestPricesForStateSorted(commodity, state, sort string) error {
	direction, err := market.ParseSortDirection(sort)
	if err != nil {
		return err
	}
	return c.send(&pricing.GetCurrentPricesQuery{
		Commodity: commodity,
		State:     state,
		Sort:      direction,
		Page:      1,
	})
}

func (c *currentPricesContext) iRequestPricesForState(commodity, state string) error {
	return c.iRequestPricesForStateSorted(commodity, state, "none")
}

func (c *currentPricesContext) thePriceQueryShouldSucceedWithStatus(status string) error {
	if c.err != nil {
		return fmt.Errorf("expected success but got error: %w", c.err)
	}
	if string(c.response.Status) != status {
		return fmt.Errorf("expected status %q but got %q", status, c.response.Status)
	}
	return nil
}

func (c *currentPricesContext) thePriceQueryShouldFailWithNotFound(kind string) error {
	if c.err == nil {
		return fmt.Errorf("expected a not found error but the query succeeded with status %q", c.response.Status)
	}
	var notFound *market.NotFoundError
	if !errors.As(c.err, &notFound) {
		return fmt.Errorf("expected a not found error but got: %v", c.err)
	}
	if string(notFound.Kind) != kind {
		return fmt.Errorf("expected %s not found but got %s not found", kind, notFound.Kind)
	}
	return nil
}

func (c *currentPricesContext) marketsLookedUpForDistrictOnly(districtID int) error {
	calls := c.gateway.MarketCalls()
	if len(calls) != 1 {
		return fmt.Errorf("expected 1 market lookup but got %d", len(calls))
	}
	if calls[0].DistrictID != districtID {
		return fmt.Errorf("expected market lookup for district %d but got %d", districtID, calls[0].DistrictID)
	}
	return nil
}

func (c *currentPricesContext) nPriceLookupsShouldHaveBeenMade(n int) error {
	if got := len(c.gateway.PriceCalls()); got != n {
		return fmt.Errorf("expected %d price lookups but got %d", n, got)
	}
	return nil
}

func (c *currentPricesContext) noPriceLookups() error {
	return c.nPriceLookupsShouldHaveBeenMade(0)
}

func (c *currentPricesContext) noMarketOrPriceLookups() error {
	if got := len(c.gateway.MarketCalls()); got != 0 {
		return fmt.Errorf("expected no market lookups but got %d", got)
	}
	return c.noPriceLookups()
}

func (c *currentPricesContext) theFirstRecordShouldBe(name string, modal float64) error {
	if c.response == nil || len(c.response.Records) == 0 {
		return fmt.Errorf("expected price records but got none")
	}
	first := c.response.Records[0]
	if first.MarketName != name || first.ModalPrice != modal {
		return fmt.Errorf("expected first record %s at %.2f but got %s at %.2f", name, modal, first.MarketName, first.ModalPrice)
	}
	return nil
}

func (c *currentPricesContext) theBestPriceShouldBe(modal float64, name string) error {
	if c.response == nil || c.response.BestPrice == nil {
		return fmt.Errorf("expected a best price but got none")
	}
	best := c.response.BestPrice
	if best.MarketName != name || best.ModalPrice != modal {
		return fmt.Errorf("expected best price %s at %.2f but got %s at %.2f", name, modal, best.MarketName, best.ModalPrice)
	}
	return nil
}

func (c *currentPricesContext) nPriceRecordsReturned(n int) error {
	if c.response == nil {
		return fmt.Errorf("expected a response but got error: %v", c.err)
	}
	if len(c.response.Records) != n {
		return fmt.Errorf("expected %d price records but got %d", n, len(c.response.Records))
	}
	return nil
}

func (c *currentPricesContext) nMarketLookupsFailed(n int) error {
	if c.response == nil {
		return fmt.Errorf("expected a response but got error: %v", c.err)
	}
	if got := c.response.Stats.FailedMarketLookups; got != n {
		return fmt.Errorf("expected %d failed market lookups but got %d", n, got)
	}
	return nil
}
