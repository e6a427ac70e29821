package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]interface{}
}

func newCatalogServer(t *testing.T, status int, payload string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newCatalogClient(baseURL, key string) *api.AgmarknetClient {
	return api.NewAgmarknetClient(api.AgmarknetConfig{BaseURL: baseURL, APIKey: key}, nil, nil)
}

func TestAgmarknetClient_FetchCommodities(t *testing.T) {
	// Arrange
	srv, requests := newCatalogServer(t, http.StatusOK,
		`{"output":{"data":[{"commodity_id":7,"commodity_name":"Wheat"},{"commodity_id":2,"commodity_name":"Rice"}]}}`)
	client := newCatalogClient(srv.URL, "secret")

	// Act
	commodities, err := client.FetchCommodities(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []market.Commodity{{ID: 7, Name: "Wheat"}, {ID: 2, Name: "Rice"}}, commodities)
	require.Len(t, *requests, 1)
	assert.Equal(t, http.MethodGet, (*requests)[0].Method)
	assert.Equal(t, "/commodities", (*requests)[0].Path)
	assert.Equal(t, "Bearer secret", (*requests)[0].Auth)
}

func TestAgmarknetClient_MissingEnvelopeIsEmpty(t *testing.T) {
	for name, payload := range map[string]string{
		"no output":      `{}`,
		"null data":      `{"output":{"data":null}}`,
		"data not array": `{"output":{"data":{"x":1}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := newCatalogServer(t, http.StatusOK, payload)

			geos, err := newCatalogClient(srv.URL, "k").FetchGeographies(context.Background())

			require.NoError(t, err)
			assert.Empty(t, geos)
			assert.NotNil(t, geos)
		})
	}
}

func TestAgmarknetClient_FetchMarketsSendsIndicator(t *testing.T) {
	srv, requests := newCatalogServer(t, http.StatusOK,
		`{"output":{"data":[{"market_id":101,"market_name":"Pune APMC"}]}}`)

	markets, err := newCatalogClient(srv.URL, "k").FetchMarkets(context.Background(), 7, 3, 12)

	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "Pune APMC", markets[0].Name)

	body := (*requests)[0].Body
	assert.Equal(t, http.MethodPost, (*requests)[0].Method)
	assert.Equal(t, "/markets", (*requests)[0].Path)
	assert.EqualValues(t, 7, body["commodity_id"])
	assert.EqualValues(t, 3, body["state_id"])
	assert.EqualValues(t, 12, body["district_id"])
	assert.Equal(t, "price", body["indicator"])
}

func TestAgmarknetClient_FetchPricesSendsArraysAndWindow(t *testing.T) {
	srv, requests := newCatalogServer(t, http.StatusOK,
		`{"output":{"data":[{"date":"2024-07-01","modal_price":2250.5,"min_price":2100,"max_price":2400}]}}`)

	prices, err := newCatalogClient(srv.URL, "k").FetchPrices(context.Background(), market.PriceQuery{
		CommodityID: 7,
		StateID:     3,
		DistrictIDs: []int{12},
		MarketIDs:   []int{101},
		Window:      market.PriceWindow{From: "2024-06-25", To: "2024-07-01"},
	})

	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.NotNil(t, prices[0].ModalPrice)
	assert.Equal(t, 2250.5, *prices[0].ModalPrice)

	body := (*requests)[0].Body
	assert.Equal(t, []interface{}{float64(12)}, body["district_id"])
	assert.Equal(t, []interface{}{float64(101)}, body["market_id"])
	assert.Equal(t, "2024-06-25", body["from_date"])
	assert.Equal(t, "2024-07-01", body["to_date"])
}

func TestAgmarknetClient_NonSuccessIsUpstreamError(t *testing.T) {
	srv, requests := newCatalogServer(t, http.StatusTooManyRequests, `{"message":"slow down"}`)

	_, err := newCatalogClient(srv.URL, "k").FetchCommodities(context.Background())

	require.Error(t, err)
	var upstream *api.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "slow down")
	assert.Len(t, *requests, 1, "no retry")

	assert.True(t, api.IsRateLimited(api.Classify(err)))
}

func TestAgmarknetClient_MissingKeyFailsBeforeNetwork(t *testing.T) {
	srv, requests := newCatalogServer(t, http.StatusOK, `{}`)

	_, err := newCatalogClient(srv.URL, "").FetchCommodities(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrAPIKeyNotConfigured))
	assert.True(t, api.IsConfigurationError(err))
	assert.Empty(t, *requests)
}

func TestClassify_LeavesOtherErrorsAlone(t *testing.T) {
	err := &api.UpstreamError{Upstream: "agmarknet", StatusCode: 500, Body: "boom"}

	assert.Same(t, err, api.Classify(err).(*api.UpstreamError))
	assert.False(t, api.IsRateLimited(api.Classify(err)))
}
