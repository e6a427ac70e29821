package irrigation

import (
	"strings"

	"github.com/google/uuid"
)

// Location is where a tip applies
type Location struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city,omitempty"`
	District string  `json:"district,omitempty"`
	State    string  `json:"state,omitempty"`
}

// Tip is a generated irrigation advisory for one crop
type Tip struct {
	ID           string   `json:"id"`
	Crop         string   `json:"crop"`
	Season       Season   `json:"season"`
	Location     Location `json:"location"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Icon         string   `json:"icon"`
	Bucket       Bucket   `json:"bucket"`
	WeatherBased bool     `json:"weather_based"`
}

var tipNamespace = uuid.MustParse("6f1d9a4e-3c1b-5e7a-9d2f-8b0c4a6e2f11")

// GenerateTips produces one tip per crop of the season. The output is a pure
// function of its inputs; ids are name-based UUIDs so repeated calls agree.
func GenerateTips(season Season, loc Location, c Conditions, weatherBased bool) []Tip {
	bucket := SelectBucket(c)
	crops := CropsForSeason(season)

	tips := make([]Tip, 0, len(crops))
	for _, crop := range crops {
		title, description, icon := Render(bucket, crop, c)
		name := strings.Join([]string{string(season), crop, string(bucket), loc.City, loc.District, loc.State}, "|")
		tips = append(tips, Tip{
			ID:           uuid.NewSHA1(tipNamespace, []byte(name)).String(),
			Crop:         crop,
			Season:       season,
			Location:     loc,
			Title:        title,
			Description:  description,
			Icon:         icon,
			Bucket:       bucket,
			WeatherBased: weatherBased,
		})
	}
	return tips
}
