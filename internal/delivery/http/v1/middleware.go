package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDCtxKey = "request_id"
	loggerCtxKey    = "logger"
)

// HandleRequestID reuses the caller's request id or assigns a new one, and
// echoes it in the response.
func (h *handlerImpl) HandleRequestID(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set(requestIDCtxKey, requestID)
	c.Set(loggerCtxKey, h.logger.With().Str("request_id", requestID).Logger())
	c.Header(requestIDHeader, requestID)
	c.Next()
}

func (h *handlerImpl) HandleLogging(c *gin.Context) {
	start := time.Now()
	c.Next()

	logger := h.requestLogger(c)
	event := logger.Info()
	if c.Writer.Status() >= 500 {
		event = logger.Error()
	}
	event.
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Int("status", c.Writer.Status()).
		Dur("duration", time.Since(start)).
		Str("user_agent", c.Request.UserAgent()).
		Msg("handled request")
}

// requestLogger returns the logger tagged with the current request id, or
// the handler's logger outside the api group.
func (h *handlerImpl) requestLogger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerCtxKey); ok {
		if logger, ok := v.(zerolog.Logger); ok {
			return &logger
		}
	}
	return &h.logger
}
