package httpserver

import (
	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/pkg/utils"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// requestContext attaches a request-scoped logger to the request context and
// logs every request once it completes
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.clock.Now()

		requestID := utils.SanitizeRequestID(c.GetHeader(RequestIDHeader))
		if requestID == "" {
			requestID = utils.GenerateRequestID("req")
		}
		c.Header(RequestIDHeader, requestID)

		logger := logging.With(s.logger, map[string]interface{}{"request_id": requestID})
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))

		c.Next()

		logger.Log(logging.LevelInfo, "HTTP request", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": s.clock.Now().Sub(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
	}
}
