package weather

import (
	"sort"
	"time"
)

// CurrentWeather is a point-in-time observation
type CurrentWeather struct {
	City        string    `json:"city"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    float64   `json:"humidity"`
	Pressure    float64   `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	Condition   string    `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	ObservedAt  time.Time `json:"observed_at"`
}

// ForecastEntry is one 3-hour forecast slot
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	TempMin     float64   `json:"temp_min"`
	TempMax     float64   `json:"temp_max"`
	Humidity    float64   `json:"humidity"`
	Rain3h      float64   `json:"rain_3h"`
	Condition   string    `json:"condition"`
}

// Forecast is the 5-day/3-hour forecast for a location
type Forecast struct {
	City     string          `json:"city"`
	Timezone int             `json:"timezone"` // offset from UTC in seconds
	Entries  []ForecastEntry `json:"entries"`
}

// DailyForecast aggregates the 3-hour entries of one calendar day
type DailyForecast struct {
	Date        string  `json:"date"`
	MinTemp     float64 `json:"min_temp"`
	MaxTemp     float64 `json:"max_temp"`
	AvgTemp     float64 `json:"avg_temp"`
	AvgHumidity float64 `json:"avg_humidity"`
	TotalRain   float64 `json:"total_rain"`
	Condition   string  `json:"condition"`
}

// MaxForecastDays bounds GroupByDay output
const MaxForecastDays = 5

// rainfall window: 8 slots x 3h = 24h
const next24hSlots = 8

// GroupByDay buckets entries by local calendar day (using the forecast's
// UTC offset) in chronological order, at most MaxForecastDays days.
func GroupByDay(f Forecast) []DailyForecast {
	loc := time.FixedZone("local", f.Timezone)

	type acc struct {
		day        DailyForecast
		tempSum    float64
		humSum     float64
		n          int
		conditions map[string]int
		order      []string
	}

	byDate := make(map[string]*acc)
	var dates []string

	for _, e := range f.Entries {
		date := e.Time.In(loc).Format("2006-01-02")
		a, ok := byDate[date]
		if !ok {
			a = &acc{
				day:        DailyForecast{Date: date, MinTemp: e.TempMin, MaxTemp: e.TempMax},
				conditions: make(map[string]int),
			}
			byDate[date] = a
			dates = append(dates, date)
		}
		if e.TempMin < a.day.MinTemp {
			a.day.MinTemp = e.TempMin
		}
		if e.TempMax > a.day.MaxTemp {
			a.day.MaxTemp = e.TempMax
		}
		a.tempSum += e.Temperature
		a.humSum += e.Humidity
		a.day.TotalRain += e.Rain3h
		a.n++
		if _, seen := a.conditions[e.Condition]; !seen {
			a.order = append(a.order, e.Condition)
		}
		a.conditions[e.Condition]++
	}

	sort.Strings(dates)
	if len(dates) > MaxForecastDays {
		dates = dates[:MaxForecastDays]
	}

	days := make([]DailyForecast, 0, len(dates))
	for _, date := range dates {
		a := byDate[date]
		a.day.AvgTemp = a.tempSum / float64(a.n)
		a.day.AvgHumidity = a.humSum / float64(a.n)
		a.day.Condition = dominant(a.order, a.conditions)
		days = append(days, a.day)
	}
	return days
}

// dominant picks the most frequent condition, earliest seen on ties
func dominant(order []string, counts map[string]int) string {
	best := ""
	bestCount := 0
	for _, c := range order {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}
	return best
}

// RainfallNext24h sums the 3-hour rain of the first eight forecast slots
func RainfallNext24h(entries []ForecastEntry) float64 {
	total := 0.0
	for i, e := range entries {
		if i >= next24hSlots {
			break
		}
		total += e.Rain3h
	}
	return total
}
