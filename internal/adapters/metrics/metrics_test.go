package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/metrics"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

type fakeQuery struct{}

func TestCollectors_RegisterAndRecord(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.Registry = nil })

	// Act
	c, err := metrics.NewCollectors()
	require.NoError(t, err)

	c.API.RecordAPIRequest("agmarknet", "/prices", 200, 0.12)
	c.Cache.RecordCacheHit("catalog")
	c.Cache.RecordCacheMiss("catalog")
	c.Aggregation.RecordFanout("markets", 3, 1)
	c.Aggregation.RecordBestPrice("Wheat", 2400)

	// Assert
	assert.True(t, metrics.IsEnabled())
	count, err := testutil.GatherAndCount(metrics.GetRegistry(),
		"agroinsight_core_upstream_requests_total",
		"agroinsight_core_cache_hits_total",
		"agroinsight_core_fanout_calls_total",
		"agroinsight_core_market_best_modal_price",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestNewCollectors_DisabledRegistryIsNoop(t *testing.T) {
	metrics.Registry = nil

	c, err := metrics.NewCollectors()

	require.NoError(t, err)
	assert.False(t, metrics.IsEnabled())
	c.Cache.RecordCacheEviction("soil")
}

func TestPrometheusMiddleware_RecordsStatus(t *testing.T) {
	collector := metrics.NewQueryMetricsCollector()
	mw := metrics.PrometheusMiddleware(collector)
	boom := errors.New("boom")

	_, err := mw(context.Background(), &fakeQuery{}, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, testutil.CollectAndCount(collector.QueriesTotal(), "agroinsight_core_queries_total"))
}

func TestPrometheusMiddleware_SeparatesRejectedFromErrors(t *testing.T) {
	// Arrange
	collector := metrics.NewQueryMetricsCollector()
	mw := metrics.PrometheusMiddleware(collector)
	send := func(err error) {
		_, _ = mw(context.Background(), &fakeQuery{}, func(ctx context.Context, r mediator.Request) (mediator.Response, error) {
			return nil, err
		})
	}

	// Act
	send(nil)
	send(shared.NewValidationError("season", "unknown season"))
	send(market.NewNotFoundError(market.KindCommodity, "Saffron"))
	send(errors.New("agmarknet unavailable"))

	// Assert
	total := collector.QueriesTotal()
	assert.Equal(t, 1.0, testutil.ToFloat64(total.WithLabelValues("fakeQuery", metrics.QueryStatusSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(total.WithLabelValues("fakeQuery", metrics.QueryStatusRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(total.WithLabelValues("fakeQuery", metrics.QueryStatusError)))
}
