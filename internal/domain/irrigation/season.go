package irrigation

import (
	"fmt"
	"strings"
	"time"
)

// Season is an Indian agricultural season
type Season string

const (
	Kharif Season = "Kharif"
	Rabi   Season = "Rabi"
	Summer Season = "Summer"
	Winter Season = "Winter"
)

// SeasonForMonth derives the season from a calendar month:
// Jun-Oct Kharif, Nov-Mar Rabi, Apr-May Summer.
func SeasonForMonth(m time.Month) Season {
	switch m {
	case time.June, time.July, time.August, time.September, time.October:
		return Kharif
	case time.November, time.December, time.January, time.February, time.March:
		return Rabi
	case time.April, time.May:
		return Summer
	}
	return Winter
}

// ParseSeason accepts a season name case-insensitively
func ParseSeason(s string) (Season, error) {
	for _, season := range []Season{Kharif, Rabi, Summer, Winter} {
		if strings.EqualFold(strings.TrimSpace(s), string(season)) {
			return season, nil
		}
	}
	return "", fmt.Errorf("unknown season %q", s)
}

var seasonCrops = map[Season][]string{
	Kharif: {"Rice", "Cotton", "Maize", "Soybean", "Groundnut"},
	Rabi:   {"Wheat", "Mustard", "Chickpea", "Barley", "Peas"},
	Summer: {"Watermelon", "Cucumber", "Moong", "Sunflower", "Vegetables"},
	Winter: {"Wheat", "Potato", "Mustard", "Peas", "Onion"},
}

// CropsForSeason returns the five crops tips are generated for
func CropsForSeason(s Season) []string {
	crops := seasonCrops[s]
	out := make([]string, len(crops))
	copy(out, crops)
	return out
}

// seasonal normal weather used when live weather is unavailable
var seasonNormals = map[Season]Conditions{
	Kharif: {Temperature: 29, Humidity: 78, Rainfall: 4},
	Rabi:   {Temperature: 21, Humidity: 55, Rainfall: 0},
	Summer: {Temperature: 36, Humidity: 35, Rainfall: 0},
	Winter: {Temperature: 18, Humidity: 65, Rainfall: 0},
}

// SeasonalNormals returns typical conditions for a season
func SeasonalNormals(s Season) Conditions {
	return seasonNormals[s]
}
