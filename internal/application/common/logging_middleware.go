package common

import (
	"context"

	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// LoggingMiddleware logs every dispatched query with its duration.
// Failed queries are logged at ERROR before the error leaves the application layer;
// rejected input and catalog misses are the caller's problem and log at WARNING.
func LoggingMiddleware(clock shared.Clock) mediator.Middleware {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		logger := logging.FromContext(ctx)
		name := mediator.RequestName(request)
		start := clock.Now()

		response, err := next(ctx, request)

		metadata := map[string]interface{}{
			"request":     name,
			"duration_ms": clock.Now().Sub(start).Milliseconds(),
		}
		if err != nil {
			metadata["error"] = err.Error()
			level := logging.LevelError
			if shared.IsValidation(err) || market.IsNotFound(err) {
				level = logging.LevelWarning
			}
			logger.Log(level, "request failed", metadata)
			return response, err
		}
		logger.Log(logging.LevelDebug, "request handled", metadata)
		return response, nil
	}
}
