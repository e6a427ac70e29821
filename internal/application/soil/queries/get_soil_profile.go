package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/soil"
)

// GetSoilProfileQuery - Query for the derived soil profile at a coordinate
type GetSoilProfileQuery struct {
	Lat float64
	Lon float64
}

// GetSoilProfileResponse - Soil profile plus whether it was served from cache
type GetSoilProfileResponse struct {
	Profile soil.Profile
	Cached  bool
}

// GetSoilProfileHandler - Handles soil profile queries
type GetSoilProfileHandler struct {
	source soil.ReadingSource
	cache  *cache.ResponseCache
	ttl    time.Duration
}

// NewGetSoilProfileHandler creates a new soil profile query handler
func NewGetSoilProfileHandler(source soil.ReadingSource, c *cache.ResponseCache, ttl time.Duration) *GetSoilProfileHandler {
	return &GetSoilProfileHandler{
		source: source,
		cache:  c,
		ttl:    ttl,
	}
}

// Handle executes the soil profile query. Upstream failures never reach the
// caller: the fixed fallback profile is returned instead and is not cached.
func (h *GetSoilProfileHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetSoilProfileQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	coord, err := shared.NewCoordinate(query.Lat, query.Lon)
	if err != nil {
		return nil, err
	}
	rounded := coord.Rounded()

	profile, cached, err := cache.GetOrCompute(ctx, h.cache, "soil:"+coord.Key(), h.ttl,
		func(ctx context.Context) (soil.Profile, error) {
			reading, err := h.source.FetchReading(ctx, rounded)
			if err != nil {
				return soil.Profile{}, err
			}
			return soil.Derive(rounded.Lat, rounded.Lon, reading), nil
		})
	if err != nil {
		logging.FromContext(ctx).Log(logging.LevelWarning, "Soil proxy unavailable, serving fallback profile", map[string]interface{}{
			"coordinate": coord.Key(),
			"error":      err.Error(),
		})
		return &GetSoilProfileResponse{Profile: soil.Fallback(rounded.Lat, rounded.Lon)}, nil
	}

	return &GetSoilProfileResponse{Profile: profile, Cached: cached}, nil
}
