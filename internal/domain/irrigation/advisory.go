package irrigation

import (
	"strconv"
	"strings"
)

// Conditions is the weather signal the advisory rules read
type Conditions struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	Rainfall    float64 `json:"rainfall"`    // mm summed over the next 24h
}

// Bucket is an irrigation advisory category
type Bucket string

const (
	BucketHeavyRain    Bucket = "heavy_rain"
	BucketModerateRain Bucket = "moderate_rain"
	BucketHotDry       Bucket = "hot_dry"
	BucketHotModerate  Bucket = "hot_moderate"
	BucketCoolHumid    Bucket = "cool_humid"
	BucketOptimal      Bucket = "optimal"
)

type advisoryRule struct {
	bucket Bucket
	match  func(c Conditions) bool
}

// Fixed priority: rainfall rules before temperature rules. First match wins.
var advisoryRules = []advisoryRule{
	{BucketHeavyRain, func(c Conditions) bool { return c.Rainfall > 20 }},
	{BucketModerateRain, func(c Conditions) bool { return c.Rainfall > 5 }},
	{BucketHotDry, func(c Conditions) bool { return c.Temperature > 35 && c.Humidity < 40 }},
	{BucketHotModerate, func(c Conditions) bool { return c.Temperature > 30 && c.Humidity < 60 }},
	{BucketCoolHumid, func(c Conditions) bool { return c.Temperature < 20 && c.Humidity > 70 }},
}

// SelectBucket runs the rule cascade
func SelectBucket(c Conditions) Bucket {
	for _, rule := range advisoryRules {
		if rule.match(c) {
			return rule.bucket
		}
	}
	return BucketOptimal
}

type template struct {
	title       string
	description string
	icon        string
}

var templates = map[Bucket]template{
	BucketHeavyRain: {
		title:       "Skip irrigation for {crop}",
		description: "Heavy rain of {rainfall} mm is expected in the next 24 hours. Pause irrigation for {crop}, clear field drains and watch for waterlogging.",
		icon:        "cloud-rain",
	},
	BucketModerateRain: {
		title:       "Reduce irrigation for {crop}",
		description: "Around {rainfall} mm of rain is expected. Cut the next irrigation for {crop} by about half and check soil moisture after the rain.",
		icon:        "cloud-drizzle",
	},
	BucketHotDry: {
		title:       "Irrigate {crop} early and often",
		description: "It is {temp}°C with only {humidity}% humidity. Irrigate {crop} in the early morning or evening and consider mulching to cut evaporation.",
		icon:        "sun",
	},
	BucketHotModerate: {
		title:       "Keep {crop} well watered",
		description: "Warm conditions at {temp}°C and {humidity}% humidity. Keep a regular irrigation schedule for {crop} and avoid watering at midday.",
		icon:        "thermometer",
	},
	BucketCoolHumid: {
		title:       "Irrigate {crop} sparingly",
		description: "Cool and humid at {temp}°C with {humidity}% humidity. Water {crop} lightly and watch for fungal disease.",
		icon:        "cloud",
	},
	BucketOptimal: {
		title:       "Normal irrigation for {crop}",
		description: "Conditions are favourable ({temp}°C, {humidity}% humidity). Follow the normal irrigation schedule for {crop}.",
		icon:        "check-circle",
	},
}

const genericCropAdvice = "Monitor soil moisture regularly and irrigate when the top 5 cm of soil feels dry."

var cropAdvice = map[string]string{
	"rice":       "Keep 2-5 cm of standing water during tillering and flowering; drain 10 days before harvest.",
	"cotton":     "Critical stages are flowering and boll formation; avoid water stress then and avoid waterlogging.",
	"maize":      "Tasseling and silking are the most sensitive stages; do not let the field dry out then.",
	"soybean":    "Irrigate at pod filling if there is no rain; soybean does not tolerate standing water.",
	"groundnut":  "Keep soil moist during pegging and pod development; light frequent irrigation works best.",
	"wheat":      "Crown root initiation (about 21 days after sowing) is the most critical irrigation.",
	"mustard":    "One irrigation at flowering and one at pod filling is usually enough.",
	"chickpea":   "Chickpea needs little water; a light irrigation before flowering helps in dry years.",
	"barley":     "Two to three irrigations are sufficient; avoid irrigation late in grain filling.",
	"peas":       "Irrigate at flowering and pod filling; excess water causes root rot.",
	"watermelon": "Water deeply at the base; reduce irrigation as fruits ripen to improve sweetness.",
	"cucumber":   "Keep soil evenly moist; irregular watering causes bitter, misshapen fruit.",
	"moong":      "A light irrigation at flowering and pod formation protects yield.",
	"sunflower":  "Bud formation and flowering stages need assured moisture.",
	"vegetables": "Use drip or furrow irrigation and water at the root zone rather than the leaves.",
	"potato":     "Keep ridges moist but not wet; stop irrigation 10 days before harvest.",
	"onion":      "Shallow roots need frequent light irrigation; stop when tops start to fall.",
	"sugarcane":  "Irrigate every 7-10 days in summer; trash mulching conserves moisture.",
}

// CropAdvice returns the static crop-specific advisory
func CropAdvice(crop string) string {
	if advice, ok := cropAdvice[strings.ToLower(strings.TrimSpace(crop))]; ok {
		return advice
	}
	return genericCropAdvice
}

// Render fills a bucket template for a crop
func Render(b Bucket, crop string, c Conditions) (title, description, icon string) {
	t, ok := templates[b]
	if !ok {
		t = templates[BucketOptimal]
	}
	r := strings.NewReplacer(
		"{crop}", crop,
		"{temp}", formatNumber(c.Temperature),
		"{humidity}", formatNumber(c.Humidity),
		"{rainfall}", formatNumber(c.Rainfall),
	)
	return r.Replace(t.title), r.Replace(t.description) + " " + CropAdvice(crop), t.icon
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
