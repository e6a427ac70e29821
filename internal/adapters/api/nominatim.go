package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/domain/geo"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

const (
	upstreamNominatim   = "nominatim"
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "agroinsight/1.0 (crop price and advisory service)"
)

// NominatimConfig configures the geocoding client
type NominatimConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NominatimClient implements geo.Geocoder
type NominatimClient struct {
	req *requester
}

// NewNominatimClient builds a geocoding client. The upstream usage policy
// requires an identifying User-Agent on every call.
func NewNominatimClient(cfg NominatimConfig, recorder RequestRecorder, clock shared.Clock) *NominatimClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultUpstreamTimeout
	}
	return &NominatimClient{
		req: newRequester(requesterOptions{
			upstream:  upstreamNominatim,
			baseURL:   cfg.BaseURL,
			timeout:   cfg.Timeout,
			userAgent: cfg.UserAgent,
			recorder:  recorder,
			clock:     clock,
		}),
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		StateDistrict string `json:"state_district"`
		County        string `json:"county"`
		State         string `json:"state"`
	} `json:"address"`
}

func (p nominatimPlace) toPlace() (*geo.Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}

	city := firstNonEmpty(p.Address.City, p.Address.Town, p.Address.Village)
	district := strings.TrimSuffix(firstNonEmpty(p.Address.StateDistrict, p.Address.County), " District")

	return &geo.Place{
		Coordinate:  shared.Coordinate{Lat: lat, Lon: lon},
		City:        city,
		District:    district,
		State:       p.Address.State,
		DisplayName: p.DisplayName,
	}, nil
}

// Reverse looks up the address at a coordinate
func (c *NominatimClient) Reverse(ctx context.Context, coord shared.Coordinate) (*geo.Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	q.Set("addressdetails", "1")

	var resp nominatimPlace
	if err := c.req.do(ctx, call{method: http.MethodGet, path: "/reverse", query: q}, &resp); err != nil {
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	if resp.Lat == "" {
		return nil, geo.ErrPlaceNotFound
	}
	return resp.toPlace()
}

// Search geocodes a free-text place name, restricted to India
func (c *NominatimClient) Search(ctx context.Context, query string) (*geo.Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("q", query)
	q.Set("countrycodes", "in")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")

	var resp []nominatimPlace
	if err := c.req.do(ctx, call{method: http.MethodGet, path: "/search", query: q}, &resp); err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", query, err)
	}
	if len(resp) == 0 {
		return nil, geo.ErrPlaceNotFound
	}
	return resp[0].toPlace()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
