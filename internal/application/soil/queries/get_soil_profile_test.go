package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/soil/queries"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/soil"
	"github.com/andrescamacho/agroinsight-go/test/helpers"
)

const soilTTL = 6 * time.Hour

func newSoilHandler(source soil.ReadingSource, clock shared.Clock, version int) (*queries.GetSoilProfileHandler, *cache.ResponseCache) {
	c := cache.New(cache.Options{Name: "soil", DefaultTTL: soilTTL, Version: version, Clock: clock})
	return queries.NewGetSoilProfileHandler(source, c, soilTTL), c
}

func profileFor(t *testing.T, h *queries.GetSoilProfileHandler, lat, lon float64) *queries.GetSoilProfileResponse {
	t.Helper()
	resp, err := h.Handle(context.Background(), &queries.GetSoilProfileQuery{Lat: lat, Lon: lon})
	require.NoError(t, err)
	return resp.(*queries.GetSoilProfileResponse)
}

func TestGetSoilProfile_SecondCallWithinTTLIsCached(t *testing.T) {
	// Arrange
	source := helpers.NewMockSoilSource(soil.NewReading(0.22, 27))
	clock := shared.NewMockClock(time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC))
	handler, _ := newSoilHandler(source, clock, 1)

	// Act
	first := profileFor(t, handler, 18.520, 73.856)
	clock.Advance(5 * time.Hour)
	second := profileFor(t, handler, 18.520, 73.856)

	// Assert
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, source.CallCount())
	assert.Equal(t, soil.SourceOpenMeteo, second.Profile.Source)
	assert.Equal(t, first.Profile, second.Profile)
}

func TestGetSoilProfile_NearbyCoordinatesShareEntry(t *testing.T) {
	source := helpers.NewMockSoilSource(soil.Reading{Moisture: 0.1})
	handler, _ := newSoilHandler(source, shared.NewRealClock(), 1)

	profileFor(t, handler, 18.5201, 73.8561)
	resp := profileFor(t, handler, 18.5198, 73.8559)

	assert.True(t, resp.Cached)
	assert.Equal(t, 1, source.CallCount())
	assert.Equal(t, soil.TypeSandyLoam, resp.Profile.SoilType)
}

func TestGetSoilProfile_ExpiresAfterTTL(t *testing.T) {
	source := helpers.NewMockSoilSource(soil.Reading{Moisture: 0.4})
	clock := shared.NewMockClock(time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC))
	handler, _ := newSoilHandler(source, clock, 1)

	profileFor(t, handler, 18.52, 73.856)
	clock.Advance(soilTTL)
	resp := profileFor(t, handler, 18.52, 73.856)

	assert.False(t, resp.Cached)
	assert.Equal(t, 2, source.CallCount())
}

func TestGetSoilProfile_VersionBumpInvalidates(t *testing.T) {
	source := helpers.NewMockSoilSource(soil.Reading{Moisture: 0.2})
	handler, c := newSoilHandler(source, shared.NewRealClock(), 1)

	profileFor(t, handler, 18.52, 73.856)
	c.BumpVersion()
	resp := profileFor(t, handler, 18.52, 73.856)

	assert.False(t, resp.Cached)
	assert.Equal(t, 2, source.CallCount())
}

func TestGetSoilProfile_FallbackIsNotCached(t *testing.T) {
	// Arrange
	source := helpers.NewMockSoilSource(soil.Reading{Moisture: 0.2})
	source.SetError(errors.New("upstream down"))
	handler, c := newSoilHandler(source, shared.NewRealClock(), 1)

	// Act
	resp := profileFor(t, handler, 18.52, 73.856)

	// Assert
	assert.Equal(t, soil.SourceFallback, resp.Profile.Source)
	assert.Equal(t, soil.TypeLoam, resp.Profile.SoilType)
	assert.Equal(t, 7.0, resp.Profile.PH)
	assert.False(t, resp.Cached)
	assert.Equal(t, 0, c.Len())

	source.SetError(nil)
	recovered := profileFor(t, handler, 18.52, 73.856)
	assert.Equal(t, soil.SourceOpenMeteo, recovered.Profile.Source)
}

func TestGetSoilProfile_RejectsInvalidCoordinate(t *testing.T) {
	handler, _ := newSoilHandler(helpers.NewMockSoilSource(soil.Reading{}), shared.NewRealClock(), 1)

	_, err := handler.Handle(context.Background(), &queries.GetSoilProfileQuery{Lat: 95, Lon: 73})

	var ve *shared.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "lat", ve.Field)
}
