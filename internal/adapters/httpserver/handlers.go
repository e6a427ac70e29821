package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/catalog"
	irrigationQueries "github.com/andrescamacho/agroinsight-go/internal/application/irrigation/queries"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	soilQueries "github.com/andrescamacho/agroinsight-go/internal/application/soil/queries"
	weatherQueries "github.com/andrescamacho/agroinsight-go/internal/application/weather/queries"
	"github.com/andrescamacho/agroinsight-go/internal/domain/irrigation"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/domain/soil"
	"github.com/andrescamacho/agroinsight-go/internal/domain/weather"
)

// CurrentPricesResponse is the body of GET /api/prices/current
type CurrentPricesResponse struct {
	Data       []market.PriceRecord `json:"data"`
	Count      int                  `json:"count"`
	BestPrice  *market.PriceRecord  `json:"best_price"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
	Reason     string               `json:"reason,omitempty"`
	Window     market.PriceWindow   `json:"window"`
	Stats      pricing.Stats        `json:"stats"`
}

// IrrigationTipsResponse is the body of GET /api/irrigation-tips
type IrrigationTipsResponse struct {
	Data         []irrigation.Tip      `json:"data"`
	Count        int                   `json:"count"`
	Season       irrigation.Season     `json:"season"`
	Locale       string                `json:"locale"`
	Location     irrigation.Location   `json:"location"`
	Conditions   irrigation.Conditions `json:"conditions"`
	WeatherBased bool                  `json:"weather_based"`
}

// SoilResponse is the body of GET /api/soil
type SoilResponse struct {
	Data   soil.Profile `json:"data"`
	Count  int          `json:"count"`
	Cached bool         `json:"cached"`
}

// WeatherResponse is the body of GET /api/weather
type WeatherResponse struct {
	Data  WeatherData `json:"data"`
	Count int         `json:"count"`
}

// WeatherData is the payload of GET /api/weather
type WeatherData struct {
	Current     *weather.CurrentWeather `json:"current"`
	Forecast    []weather.DailyForecast `json:"forecast"`
	Rainfall24h float64                 `json:"rainfall_24h"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": s.clock.Now().UTC()})
}

func (s *Server) listCommodities(c *gin.Context) {
	resp, err := mediator.SendAs[*catalog.ListCommoditiesResponse](c.Request.Context(), s.mediator, &catalog.ListCommoditiesQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	commodities := resp.Commodities
	list(c, commodities, len(commodities))
}

func (s *Server) listGeographies(c *gin.Context) {
	resp, err := mediator.SendAs[*catalog.ListGeographiesResponse](c.Request.Context(), s.mediator, &catalog.ListGeographiesQuery{})
	if err != nil {
		writeError(c, err)
		return
	}
	geographies := resp.Geographies
	list(c, geographies, len(geographies))
}

func (s *Server) listMarkets(c *gin.Context) {
	var req marketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := mediator.SendAs[*catalog.ListMarketsResponse](c.Request.Context(), s.mediator, &catalog.ListMarketsQuery{
		CommodityID: req.CommodityID,
		StateID:     req.StateID,
		DistrictID:  req.DistrictID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	markets := resp.Markets
	list(c, markets, len(markets))
}

func (s *Server) listPrices(c *gin.Context) {
	var req pricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := mediator.SendAs[*catalog.ListPricesResponse](c.Request.Context(), s.mediator, &catalog.ListPricesQuery{Query: market.PriceQuery{
		CommodityID: req.CommodityID,
		StateID:     req.StateID,
		DistrictIDs: req.DistrictID,
		MarketIDs:   req.MarketID,
		Window:      market.PriceWindow{From: req.FromDate, To: req.ToDate},
	}})
	if err != nil {
		writeError(c, err)
		return
	}
	prices := resp.Prices
	list(c, prices, len(prices))
}

func (s *Server) currentPrices(c *gin.Context) {
	var params currentPricesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err.Error())
		return
	}
	direction, err := market.ParseSortDirection(params.Sort)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := mediator.SendAs[*pricing.GetCurrentPricesResponse](c.Request.Context(), s.mediator, &pricing.GetCurrentPricesQuery{
		Commodity: params.Commodity,
		State:     params.State,
		District:  params.District,
		Sort:      direction,
		Page:      params.Page,
		PageSize:  params.PageSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	body := CurrentPricesResponse{
		Data:       result.Records,
		Count:      result.Count,
		BestPrice:  result.BestPrice,
		Page:       result.Page,
		TotalPages: result.TotalPages,
		Window:     result.Window,
		Stats:      result.Stats,
	}
	if result.Status != pricing.StatusOK {
		body.Reason = string(result.Status)
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) irrigationTips(c *gin.Context) {
	var params irrigationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := mediator.SendAs[*irrigationQueries.GetIrrigationTipsResponse](c.Request.Context(), s.mediator, &irrigationQueries.GetIrrigationTipsQuery{
		Lat:      params.Lat,
		Lon:      params.Lon,
		City:     params.City,
		District: params.District,
		State:    params.State,
		Season:   params.Season,
		Locale:   params.Locale,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, IrrigationTipsResponse{
		Data:         result.Tips,
		Count:        len(result.Tips),
		Season:       result.Season,
		Locale:       result.Locale,
		Location:     result.Location,
		Conditions:   result.Conditions,
		WeatherBased: result.WeatherBased,
	})
}

func (s *Server) soilProfile(c *gin.Context) {
	var params soilParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "lat and lng are required")
		return
	}

	result, err := mediator.SendAs[*soilQueries.GetSoilProfileResponse](c.Request.Context(), s.mediator, &soilQueries.GetSoilProfileQuery{Lat: *params.Lat, Lon: *params.Lng})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, SoilResponse{Data: result.Profile, Count: 1, Cached: result.Cached})
}

func (s *Server) weather(c *gin.Context) {
	var params weatherParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err.Error())
		return
	}

	var loc weather.Location
	switch {
	case params.Lat != nil && params.Lon != nil:
		coord, err := shared.NewCoordinate(*params.Lat, *params.Lon)
		if err != nil {
			writeError(c, err)
			return
		}
		loc = weather.ByCoordinate(coord)
	case params.City != "":
		loc = weather.ByCity(params.City)
	default:
		badRequest(c, "lat and lon, or city, are required")
		return
	}

	result, err := mediator.SendAs[*weatherQueries.GetWeatherResponse](c.Request.Context(), s.mediator, &weatherQueries.GetWeatherQuery{Location: loc})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, WeatherResponse{
		Data: WeatherData{
			Current:     result.Current,
			Forecast:    result.Daily,
			Rainfall24h: result.Rainfall24h,
		},
		Count: 1,
	})
}

func (s *Server) cacheStats(c *gin.Context) {
	stats := make([]cache.StatsSnapshot, 0, len(s.caches))
	for _, rc := range s.caches {
		stats = append(stats, rc.Stats())
	}
	list(c, stats, len(stats))
}
