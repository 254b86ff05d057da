package middleware

import (
	"net/http"

	"github.com/billed/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing opens a server span per request via otelgin.
// When disabled it is a pass-through.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// SpanEnricher runs inside the otelgin span, after routing and session
// resolution, and annotates it.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := GetRequestID(c); id != "" {
			telemetry.SetAttributes(span, "request_id", id)
		}
		if s, ok := GetSession(c); ok {
			telemetry.SetAttributes(span, telemetry.SpanAttrUserEmail, s.User.Email)
		}
		status := c.Writer.Status()
		telemetry.SetAttributes(span, telemetry.SpanAttrStatusCode, status)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
