package catalog

import (
	"context"
	"strings"

	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
)

// Resolver translates user-facing names to catalog ids using the cached catalog
type Resolver struct {
	catalog *Service
}

// NewResolver creates a resolver over the cached catalog
func NewResolver(catalog *Service) *Resolver {
	return &Resolver{catalog: catalog}
}

// ResolveCommodity matches a commodity name case-insensitively
func (r *Resolver) ResolveCommodity(ctx context.Context, name string) (market.Commodity, error) {
	commodities, _, err := r.catalog.Commodities(ctx)
	if err != nil {
		return market.Commodity{}, err
	}
	return FindCommodity(commodities, name)
}

// ResolveGeography matches a state, and a district within it when given.
// An empty district resolves to the state-level row.
func (r *Resolver) ResolveGeography(ctx context.Context, state, district string) (market.Geography, error) {
	geographies, _, err := r.catalog.Geographies(ctx)
	if err != nil {
		return market.Geography{}, err
	}
	return FindGeography(geographies, state, district)
}

// Geographies exposes the cached catalog for candidate selection
func (r *Resolver) Geographies(ctx context.Context) ([]market.Geography, error) {
	geographies, _, err := r.catalog.Geographies(ctx)
	return geographies, err
}

// FindCommodity is the pure lookup behind ResolveCommodity
func FindCommodity(commodities []market.Commodity, name string) (market.Commodity, error) {
	needle := strings.TrimSpace(name)
	for _, c := range commodities {
		if strings.EqualFold(strings.TrimSpace(c.Name), needle) {
			return c, nil
		}
	}
	return market.Commodity{}, market.NewNotFoundError(market.KindCommodity, name)
}

// FindGeography is the pure lookup behind ResolveGeography
func FindGeography(geographies []market.Geography, state, district string) (market.Geography, error) {
	stateName := strings.TrimSpace(state)
	districtName := strings.TrimSpace(district)

	var stateRow *market.Geography
	stateFound := false
	for i := range geographies {
		g := geographies[i]
		if !strings.EqualFold(strings.TrimSpace(g.StateName), stateName) {
			continue
		}
		stateFound = true
		if districtName == "" {
			if !g.IsDistrictLevel() {
				return g, nil
			}
			if stateRow == nil {
				stateRow = &market.Geography{StateID: g.StateID, StateName: g.StateName}
			}
			continue
		}
		if g.IsDistrictLevel() && strings.EqualFold(strings.TrimSpace(g.DistrictName), districtName) {
			return g, nil
		}
	}

	if !stateFound {
		return market.Geography{}, market.NewNotFoundError(market.KindState, state)
	}
	if districtName != "" {
		return market.Geography{}, market.NewNotFoundError(market.KindDistrict, district)
	}
	// catalog had only district rows for this state
	return *stateRow, nil
}
