package irrigation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/domain/irrigation"
)

func TestSelectBucket_Priority(t *testing.T) {
	tests := []struct {
		name string
		c    irrigation.Conditions
		want irrigation.Bucket
	}{
		{"rain beats heat", irrigation.Conditions{Temperature: 40, Humidity: 10, Rainfall: 25}, irrigation.BucketHeavyRain},
		{"exactly 20mm is moderate", irrigation.Conditions{Temperature: 25, Humidity: 50, Rainfall: 20}, irrigation.BucketModerateRain},
		{"exactly 5mm is not rain", irrigation.Conditions{Temperature: 25, Humidity: 50, Rainfall: 5}, irrigation.BucketOptimal},
		{"hot and dry", irrigation.Conditions{Temperature: 38, Humidity: 30}, irrigation.BucketHotDry},
		{"hot but humid enough", irrigation.Conditions{Temperature: 38, Humidity: 45}, irrigation.BucketHotModerate},
		{"cool humid", irrigation.Conditions{Temperature: 15, Humidity: 85}, irrigation.BucketCoolHumid},
		{"optimal", irrigation.Conditions{Temperature: 26, Humidity: 65, Rainfall: 1}, irrigation.BucketOptimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, irrigation.SelectBucket(tt.c))
		})
	}
}

func TestSeasonForMonth(t *testing.T) {
	assert.Equal(t, irrigation.Kharif, irrigation.SeasonForMonth(time.June))
	assert.Equal(t, irrigation.Kharif, irrigation.SeasonForMonth(time.October))
	assert.Equal(t, irrigation.Rabi, irrigation.SeasonForMonth(time.November))
	assert.Equal(t, irrigation.Rabi, irrigation.SeasonForMonth(time.March))
	assert.Equal(t, irrigation.Summer, irrigation.SeasonForMonth(time.April))
	assert.Equal(t, irrigation.Summer, irrigation.SeasonForMonth(time.May))
}

func TestRender_FillsPlaceholdersAndCropAdvice(t *testing.T) {
	title, description, icon := irrigation.Render(irrigation.BucketHotDry, "Cotton",
		irrigation.Conditions{Temperature: 38.24, Humidity: 30})

	assert.Equal(t, "Irrigate Cotton early and often", title)
	assert.Contains(t, description, "38.2°C")
	assert.Contains(t, description, "30.0% humidity")
	assert.Contains(t, description, "boll formation")
	assert.Equal(t, "sun", icon)
}

func TestCropAdvice_UnknownCropFallsBack(t *testing.T) {
	assert.Contains(t, irrigation.CropAdvice("Dragonfruit"), "Monitor soil moisture")
}

func TestGenerateTips_KharifIsDeterministic(t *testing.T) {
	loc := irrigation.Location{Lat: 18.52, Lon: 73.856, City: "Pune", State: "Maharashtra"}
	c := irrigation.Conditions{Temperature: 31, Humidity: 55}

	first := irrigation.GenerateTips(irrigation.Kharif, loc, c, true)
	second := irrigation.GenerateTips(irrigation.Kharif, loc, c, true)

	require.Len(t, first, 5)
	assert.Equal(t, first, second)

	crops := make([]string, len(first))
	for i, tip := range first {
		crops[i] = tip.Crop
		assert.NotEmpty(t, tip.Title)
		assert.NotEmpty(t, tip.Description)
		assert.Equal(t, irrigation.BucketHotModerate, tip.Bucket)
		assert.True(t, tip.WeatherBased)
	}
	assert.Equal(t, []string{"Rice", "Cotton", "Maize", "Soybean", "Groundnut"}, crops)
}

func TestParseSeason(t *testing.T) {
	s, err := irrigation.ParseSeason("kharif")
	require.NoError(t, err)
	assert.Equal(t, irrigation.Kharif, s)

	_, err = irrigation.ParseSeason("monsoon")
	assert.Error(t, err)
}
