package soil

// Data source tags carried on every profile
const (
	SourceOpenMeteo = "open-meteo"
	SourceFallback  = "fallback"
)

// Composition is a sand/silt/clay split in percent; the three sum to ~100
type Composition struct {
	Sand float64 `json:"sand"`
	Silt float64 `json:"silt"`
	Clay float64 `json:"clay"`
}

// Profile is the derived soil characterization for a coordinate
type Profile struct {
	Lat              float64  `json:"lat"`
	Lon              float64  `json:"lng"`
	PH               float64  `json:"ph"`
	OrganicCarbon    float64  `json:"organic_carbon"`
	Sand             float64  `json:"sand"`
	Silt             float64  `json:"silt"`
	Clay             float64  `json:"clay"`
	SoilType         string   `json:"soil_type"`
	RecommendedCrops []string `json:"recommended_crops"`
	SummaryKey       string   `json:"summary_key"`
	Moisture         *float64 `json:"moisture,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	Source           string   `json:"source"`
}

// Reading is the hourly soil proxy signal averaged over one day.
// Temperature is nil when the upstream reported no temperature at all.
type Reading struct {
	Moisture    float64  // volumetric, m³/m³
	Temperature *float64 // °C at surface
}

// NewReading builds a reading with both signals present
func NewReading(moisture, temperature float64) Reading {
	return Reading{Moisture: moisture, Temperature: &temperature}
}

// moisture bucket boundaries (m³/m³)
const (
	dryBelow = 0.15
	wetFrom  = 0.30
)

type bucket struct {
	composition   Composition
	ph            float64
	organicCarbon float64
}

var (
	dryBucket    = bucket{Composition{Sand: 65, Silt: 25, Clay: 10}, 7.6, 0.4}
	mediumBucket = bucket{Composition{Sand: 40, Silt: 40, Clay: 20}, 6.8, 0.7}
	wetBucket    = bucket{Composition{Sand: 25, Silt: 35, Clay: 40}, 6.2, 1.1}
)

func bucketFor(moisture float64) bucket {
	switch {
	case moisture < dryBelow:
		return dryBucket
	case moisture < wetFrom:
		return mediumBucket
	default:
		return wetBucket
	}
}

// CompositionFromMoisture maps a soil moisture reading onto a fixed texture triple.
// This is a proxy for survey data: drier topsoil drains faster, which sandier soils do.
func CompositionFromMoisture(moisture float64) Composition {
	return bucketFor(moisture).composition
}

// Derive builds a full profile from a soil proxy reading
func Derive(lat, lon float64, r Reading) Profile {
	b := bucketFor(r.Moisture)
	soilType := ClassifySoilType(b.composition.Sand, b.composition.Silt, b.composition.Clay)

	moisture := r.Moisture
	return Profile{
		Lat:              lat,
		Lon:              lon,
		PH:               b.ph,
		OrganicCarbon:    b.organicCarbon,
		Sand:             b.composition.Sand,
		Silt:             b.composition.Silt,
		Clay:             b.composition.Clay,
		SoilType:         soilType,
		RecommendedCrops: RecommendedCrops(b.ph, soilType),
		SummaryKey:       SummaryKey(b.ph, b.organicCarbon, soilType),
		Moisture:         &moisture,
		Temperature:      r.Temperature,
		Source:           SourceOpenMeteo,
	}
}

// Fallback is the fixed Loam / neutral / medium organic carbon profile served
// when the soil proxy cannot be reached.
func Fallback(lat, lon float64) Profile {
	const (
		ph = 7.0
		oc = 0.6
	)
	soilType := ClassifySoilType(40, 40, 20)
	return Profile{
		Lat:              lat,
		Lon:              lon,
		PH:               ph,
		OrganicCarbon:    oc,
		Sand:             40,
		Silt:             40,
		Clay:             20,
		SoilType:         soilType,
		RecommendedCrops: RecommendedCrops(ph, soilType),
		SummaryKey:       SummaryKey(ph, oc, soilType),
		Source:           SourceFallback,
	}
}
