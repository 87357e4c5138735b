package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
)

const (
	requestIDContextKey = "request_id"
	requestIDHeaderName = "X-Request-ID"
	maxRequestIDLength  = 128
)

// RequestIDFromContext returns a request ID or an empty string when unavailable.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}

// RequestLogger tags every request with an id and logs it once it completes
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		requestID := normalizeRequestID(c.GetHeader(requestIDHeaderName))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDContextKey, requestID)
		c.Writer.Header().Set(requestIDHeaderName, requestID)

		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = log.Error()
		case status >= http.StatusBadRequest:
			evt = log.Warn()
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		evt.Str("requestId", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(startedAt)).
			Str("clientIp", c.ClientIP()).
			Msg("Request completed")
	}
}

// Recovery turns panics into a 500 envelope
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("requestId", RequestIDFromContext(c)).
					Str("path", c.Request.URL.Path).
					Msg("Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
					dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)))
			}
		}()
		c.Next()
	}
}

func normalizeRequestID(raw string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" || len(candidate) > maxRequestIDLength {
		return ""
	}
	for _, r := range candidate {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return candidate
}
