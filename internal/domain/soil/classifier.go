package soil

import (
	"strings"
)

// Texture class labels
const (
	TypeSand           = "Sand"
	TypeLoamySand      = "Loamy Sand"
	TypeSandyLoam      = "Sandy Loam"
	TypeLoam           = "Loam"
	TypeSilt           = "Silt"
	TypeSiltLoam       = "Silt Loam"
	TypeSandyClayLoam  = "Sandy Clay Loam"
	TypeClayLoam       = "Clay Loam"
	TypeSiltyClayLoam  = "Silty Clay Loam"
	TypeClay           = "Clay"
	maxRecommendations = 6
)

type textureRule struct {
	label string
	match func(sand, silt, clay float64) bool
}

// Evaluated top to bottom; the first match wins. Lower bounds are inclusive.
var textureRules = []textureRule{
	{TypeSand, func(sand, _, _ float64) bool { return sand >= 85 }},
	{TypeLoamySand, func(sand, _, clay float64) bool { return sand >= 70 && clay < 15 }},
	{TypeClay, func(_, _, clay float64) bool { return clay >= 40 }},
	{TypeSilt, func(_, silt, clay float64) bool { return silt >= 80 && clay < 12 }},
	{TypeSiltLoam, func(_, silt, clay float64) bool { return silt >= 50 && clay < 27 }},
	{TypeSiltyClayLoam, func(sand, _, clay float64) bool { return clay >= 27 && sand <= 20 }},
	{TypeClayLoam, func(_, _, clay float64) bool { return clay >= 27 }},
	{TypeSandyClayLoam, func(sand, _, clay float64) bool { return clay >= 20 && sand >= 45 }},
	{TypeSandyLoam, func(sand, _, _ float64) bool { return sand >= 52 }},
}

// ClassifySoilType maps a sand/silt/clay split onto a texture class
func ClassifySoilType(sand, silt, clay float64) string {
	for _, rule := range textureRules {
		if rule.match(sand, silt, clay) {
			return rule.label
		}
	}
	return TypeLoam
}

// pH bands
const (
	PHAcidic   = "acidic"
	PHNeutral  = "neutral"
	PHAlkaline = "alkaline"
)

// PHCategory buckets a pH value; 6.0 and 7.5 are neutral
func PHCategory(ph float64) string {
	switch {
	case ph < 6.0:
		return PHAcidic
	case ph > 7.5:
		return PHAlkaline
	default:
		return PHNeutral
	}
}

// OrganicCarbonLevel buckets organic carbon percent into low/medium/high
func OrganicCarbonLevel(oc float64) string {
	switch {
	case oc < 0.5:
		return "low"
	case oc < 1.0:
		return "medium"
	default:
		return "high"
	}
}

var cropsByPH = map[string][]string{
	PHAcidic:   {"Rice", "Potato", "Tea", "Pineapple"},
	PHNeutral:  {"Wheat", "Maize", "Soybean", "Cotton", "Sugarcane"},
	PHAlkaline: {"Barley", "Cotton", "Sugar Beet", "Mustard"},
}

var cropsBySoilType = map[string][]string{
	TypeSand:          {"Groundnut", "Watermelon", "Millet"},
	TypeLoamySand:     {"Groundnut", "Potato", "Carrot"},
	TypeSandyLoam:     {"Groundnut", "Potato", "Maize"},
	TypeLoam:          {"Wheat", "Sugarcane", "Vegetables"},
	TypeSilt:          {"Wheat", "Rice", "Vegetables"},
	TypeSiltLoam:      {"Wheat", "Rice", "Vegetables"},
	TypeSandyClayLoam: {"Cotton", "Maize", "Sorghum"},
	TypeClayLoam:      {"Rice", "Cotton", "Wheat"},
	TypeSiltyClayLoam: {"Rice", "Wheat", "Sugarcane"},
	TypeClay:          {"Rice", "Cotton", "Wheat"},
}

// RecommendedCrops unions the pH band list with the soil type list, de-duplicated
// in order of first appearance and truncated to six.
func RecommendedCrops(ph float64, soilType string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, maxRecommendations)
	for _, list := range [][]string{cropsByPH[PHCategory(ph)], cropsBySoilType[soilType]} {
		for _, crop := range list {
			if seen[crop] {
				continue
			}
			seen[crop] = true
			out = append(out, crop)
		}
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

// SummaryKey selects the localized narrative: {phCategory}_{ocLevel}_{soilType}
func SummaryKey(ph, organicCarbon float64, soilType string) string {
	typeKey := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(soilType)), " ", "_")
	return PHCategory(ph) + "_" + OrganicCarbonLevel(organicCarbon) + "_" + typeKey
}
