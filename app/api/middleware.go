package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/wagerbook/internal/metrics"
	"github.com/joefazee/wagerbook/internal/security"
)

const (
	authorizationHeader = "Authorization"
	bearerType          = "bearer"
	callerIDKey         = "caller_id"
)

// AuthMiddleware requires a valid bearer token and stores the caller id in the context.
func AuthMiddleware(maker security.Maker) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields := strings.Fields(c.GetHeader(authorizationHeader))
		if len(fields) != 2 || strings.ToLower(fields[0]) != bearerType {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		payload, err := maker.VerifyToken(fields[1])
		if err != nil {
			UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(callerIDKey, payload.UserID)
		c.Next()
	}
}

// CallerID returns the authenticated caller, or "" on routes without AuthMiddleware.
func CallerID(c *gin.Context) string {
	return c.GetString(callerIDKey)
}

// SetCallerID is used by tests that bypass the middleware.
func SetCallerID(c *gin.Context, id string) {
	c.Set(callerIDKey, id)
}

// RequestMetrics counts requests by matched route and status.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
