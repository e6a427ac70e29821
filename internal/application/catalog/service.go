package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
)

// Service layers the response cache over the catalog gateway. Every lookup
// is cached for the catalog TTL; a 429 surfaces as api.RateLimitedError and
// nothing stale is served on error.
type Service struct {
	gateway market.CatalogGateway
	cache   *cache.ResponseCache
	ttl     time.Duration
}

// NewService creates a cached catalog service
func NewService(gateway market.CatalogGateway, c *cache.ResponseCache, ttl time.Duration) *Service {
	return &Service{gateway: gateway, cache: c, ttl: ttl}
}

// Commodities returns the commodity catalog
func (s *Service) Commodities(ctx context.Context) ([]market.Commodity, bool, error) {
	return cached(ctx, s, "commodities", s.gateway.FetchCommodities)
}

// Geographies returns the state/district catalog
func (s *Service) Geographies(ctx context.Context) ([]market.Geography, bool, error) {
	return cached(ctx, s, "geographies", s.gateway.FetchGeographies)
}

// Markets returns the markets for a commodity in a district
func (s *Service) Markets(ctx context.Context, commodityID, stateID, districtID int) ([]market.Market, error) {
	key := fmt.Sprintf("markets:%d:%d:%d", commodityID, stateID, districtID)
	markets, _, err := cached(ctx, s, key, func(ctx context.Context) ([]market.Market, error) {
		return s.gateway.FetchMarkets(ctx, commodityID, stateID, districtID)
	})
	return markets, err
}

// Prices returns the price series for a query
func (s *Service) Prices(ctx context.Context, q market.PriceQuery) ([]market.RawPrice, error) {
	key := fmt.Sprintf("prices:%d:%d:%s:%s:%s:%s",
		q.CommodityID, q.StateID, joinIDs(q.DistrictIDs), joinIDs(q.MarketIDs), q.Window.From, q.Window.To)
	prices, _, err := cached(ctx, s, key, func(ctx context.Context) ([]market.RawPrice, error) {
		return s.gateway.FetchPrices(ctx, q)
	})
	return prices, err
}

func cached[T any](ctx context.Context, s *Service, key string, fetch func(ctx context.Context) (T, error)) (T, bool, error) {
	v, hit, err := cache.GetOrCompute(ctx, s.cache, key, s.ttl, func(ctx context.Context) (T, error) {
		v, err := fetch(ctx)
		if err != nil {
			return v, api.Classify(err)
		}
		return v, nil
	})
	return v, hit, err
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ",")
}
