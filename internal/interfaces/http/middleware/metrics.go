package middleware

import (
	"github.com/gin-gonic/gin"
)

// RequestObserver records one finished HTTP request
type RequestObserver interface {
	ObserveRequest(method, route string, status int)
}

// Metrics reports every request to observer, labelled with the matched
// route pattern so that path parameters don't explode cardinality.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		observer.ObserveRequest(c.Request.Method, routePattern(c), c.Writer.Status())
	}
}

func routePattern(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
