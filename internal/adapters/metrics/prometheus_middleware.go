package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// PrometheusMiddleware times each dispatched query, labelled by bare type
// name ("GetCurrentPricesQuery") and outcome. Bad input and catalog misses
// count as rejected so the error series tracks upstream trouble only.
func PrometheusMiddleware(collector *QueryMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordQueryExecution(mediator.RequestName(request), time.Since(start).Seconds(), queryStatus(err))

		return response, err
	}
}

func queryStatus(err error) string {
	switch {
	case err == nil:
		return QueryStatusSuccess
	case shared.IsValidation(err), market.IsNotFound(err):
		return QueryStatusRejected
	default:
		return QueryStatusError
	}
}
