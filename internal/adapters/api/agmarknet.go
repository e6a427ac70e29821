package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

const (
	upstreamAgmarknet      = "agmarknet"
	defaultAgmarknetURL    = "https://api.ceda.ashoka.edu.in/v1/agmarknet"
	defaultUpstreamTimeout = 20 * time.Second
	priceIndicator         = "price"
)

// AgmarknetConfig configures the catalog client
type AgmarknetConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond int
	Burst             int
}

// AgmarknetClient is the single-attempt catalog gateway
type AgmarknetClient struct {
	req    *requester
	apiKey string
}

// NewAgmarknetClient builds a catalog client. A missing API key is not an
// error here; every call fails with a ConfigurationError instead.
func NewAgmarknetClient(cfg AgmarknetConfig, recorder RequestRecorder, clock shared.Clock) *AgmarknetClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAgmarknetURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultUpstreamTimeout
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &AgmarknetClient{
		req: newRequester(requesterOptions{
			upstream: upstreamAgmarknet,
			baseURL:  cfg.BaseURL,
			timeout:  cfg.Timeout,
			limiter:  limiter,
			recorder: recorder,
			clock:    clock,
		}),
		apiKey: cfg.APIKey,
	}
}

// envelope is the catalog response shape {output: {data: [...]}}
type envelope struct {
	Output *struct {
		Data json.RawMessage `json:"data"`
	} `json:"output"`
}

// rows decodes output.data; a missing or non-array payload is an empty result
func rows[T any](env envelope) []T {
	if env.Output == nil || len(env.Output.Data) == 0 {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(env.Output.Data, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

func (c *AgmarknetClient) send(ctx context.Context, method, path string, body interface{}) (envelope, error) {
	var env envelope
	if c.apiKey == "" {
		return env, &ConfigurationError{Setting: "AGMARKNET_API_KEY"}
	}
	err := c.req.do(ctx, call{method: method, path: path, token: c.apiKey, body: body}, &env)
	return env, err
}

// FetchCommodities lists the commodity catalog
func (c *AgmarknetClient) FetchCommodities(ctx context.Context) ([]market.Commodity, error) {
	env, err := c.send(ctx, http.MethodGet, "/commodities", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commodities: %w", err)
	}
	return rows[market.Commodity](env), nil
}

// FetchGeographies lists states and state/district pairs
func (c *AgmarknetClient) FetchGeographies(ctx context.Context) ([]market.Geography, error) {
	env, err := c.send(ctx, http.MethodGet, "/geographies", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch geographies: %w", err)
	}
	return rows[market.Geography](env), nil
}

type marketsRequest struct {
	CommodityID int    `json:"commodity_id"`
	StateID     int    `json:"state_id"`
	DistrictID  int    `json:"district_id"`
	Indicator   string `json:"indicator"`
}

// FetchMarkets lists markets trading a commodity in a district
func (c *AgmarknetClient) FetchMarkets(ctx context.Context, commodityID, stateID, districtID int) ([]market.Market, error) {
	env, err := c.send(ctx, http.MethodPost, "/markets", marketsRequest{
		CommodityID: commodityID,
		StateID:     stateID,
		DistrictID:  districtID,
		Indicator:   priceIndicator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch markets: %w", err)
	}
	return rows[market.Market](env), nil
}

type pricesRequest struct {
	CommodityID int    `json:"commodity_id"`
	StateID     int    `json:"state_id"`
	DistrictID  []int  `json:"district_id"`
	MarketID    []int  `json:"market_id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Indicator   string `json:"indicator"`
}

// FetchPrices returns the price series for the query window
func (c *AgmarknetClient) FetchPrices(ctx context.Context, q market.PriceQuery) ([]market.RawPrice, error) {
	districts := q.DistrictIDs
	if districts == nil {
		districts = []int{}
	}
	markets := q.MarketIDs
	if markets == nil {
		markets = []int{}
	}
	env, err := c.send(ctx, http.MethodPost, "/prices", pricesRequest{
		CommodityID: q.CommodityID,
		StateID:     q.StateID,
		DistrictID:  districts,
		MarketID:    markets,
		FromDate:    q.Window.From,
		ToDate:      q.Window.To,
		Indicator:   priceIndicator,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	return rows[market.RawPrice](env), nil
}
