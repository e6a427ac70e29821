package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/api"
	"github.com/andrescamacho/agroinsight-go/internal/application/pricing"
	"github.com/andrescamacho/agroinsight-go/internal/domain/market"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
)

// ListResponse is the envelope for collection endpoints
type ListResponse struct {
	Data  interface{} `json:"data"`
	Count int         `json:"count"`
}

// ErrorResponse is the envelope for every failure
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// MessageAPIKeyNotConfigured is the user-facing configuration failure
const MessageAPIKeyNotConfigured = "API key not configured"

func list(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, ListResponse{Data: data, Count: count})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// writeError maps application errors onto status codes. Nothing but the
// error message crosses the boundary.
func writeError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	c.JSON(status, body)
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		notFound   *market.NotFoundError
		validation *shared.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorResponse{
			Error:  notFound.Error(),
			Reason: string(pricing.StatusForNotFound(notFound)),
		}
	case api.IsRateLimited(err):
		var rl *api.RateLimitedError
		errors.As(err, &rl)
		return http.StatusTooManyRequests, ErrorResponse{Error: rl.Error()}
	case api.IsConfigurationError(err):
		return http.StatusInternalServerError, ErrorResponse{Error: MessageAPIKeyNotConfigured}
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{Error: validation.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}
