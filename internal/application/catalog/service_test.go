package catalog_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/catalog"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

const catalogTTL = 10 * time.Minute

func newService(gateway market.CatalogGateway, clock shared.Clock) *catalog.Service {
	c := cache.New(cache.Options{Name: "catalog", DefaultTTL: catalogTTL, Clock: clock})
	return catalog.NewService(gateway, c, catalogTTL)
}

func TestService_CommoditiesAreCachedWithinTTL(t *testing.T) {
	// Arrange
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)
	clock := shared.NewMockClock(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	svc := newService(gateway, clock)
	ctx := context.Background()

	// Act
	first, firstCached, err := svc.Commodities(ctx)
	require.NoError(t, err)
	clock.Advance(9 * time.Minute)
	second, secondCached, err := svc.Commodities(ctx)
	require.NoError(t, err)

	// Assert
	assert.False(t, firstCached)
	assert.True(t, secondCached)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gateway.CommodityCalls())
}

func TestService_CommoditiesRefetchedAfterTTL(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)
	clock := shared.NewMockClock(time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	svc := newService(gateway, clock)

	_, _, err := svc.Commodities(context.Background())
	require.NoError(t, err)
	clock.Advance(catalogTTL)
	_, cached, err := svc.Commodities(context.Background())
	require.NoError(t, err)

	assert.False(t, cached)
	assert.Equal(t, 2, gateway.CommodityCalls())
}

func TestService_RateLimitSurfacesAsRateLimitedError(t *testing.T) {
	// Arrange
	gateway := helpers.NewMockCatalogGateway()
	gateway.SetError(&api.UpstreamError{Upstream: "agmarknet", StatusCode: http.StatusTooManyRequests, Body: "slow down"})
	svc := newService(gateway, shared.NewRealClock())

	// Act
	_, _, err := svc.Geographies(context.Background())

	// Assert
	require.Error(t, err)
	assert.True(t, api.IsRateLimited(err))
	assert.True(t, strings.Contains(err.Error(), "try again later"))
}

func TestService_FailuresAreNotCached(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	helpers.SeedCatalog(gateway)
	gateway.SetError(&api.UpstreamError{Upstream: "agmarknet", StatusCode: http.StatusBadGateway})
	svc := newService(gateway, shared.NewRealClock())

	_, _, err := svc.Commodities(context.Background())
	require.Error(t, err)
	assert.False(t, api.IsRateLimited(err))

	gateway.SetError(nil)
	commodities, cached, err := svc.Commodities(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, commodities, 3)
}

func TestService_MarketsKeyedByTriple(t *testing.T) {
	gateway := helpers.NewMockCatalogGateway()
	gateway.SetMarkets(helpers.PuneID, market.Market{ID: 101, Name: "Pune APMC"})
	gateway.SetMarkets(helpers.NashikID, market.Market{ID: 201, Name: "Lasalgaon"})
	svc := newService(gateway, shared.NewRealClock())
	ctx := context.Background()

	pune, err := svc.Markets(ctx, helpers.WheatID, helpers.MaharashtraID, helpers.PuneID)
	require.NoError(t, err)
	_, err = svc.Markets(ctx, helpers.WheatID, helpers.MaharashtraID, helpers.PuneID)
	require.NoError(t, err)
	nashik, err := svc.Markets(ctx, helpers.WheatID, helpers.MaharashtraID, helpers.NashikID)
	require.NoError(t, err)

	assert.Equal(t, "Pune APMC", pune[0].Name)
	assert.Equal(t, "Lasalgaon", nashik[0].Name)
	assert.Len(t, gateway.MarketCalls(), 2)
}
