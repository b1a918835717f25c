package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

var allowedHeaders = strings.Join([]string{
	"Content-Type",
	"Content-Length",
	"Accept-Encoding",
	"Authorization",
	"accept, origin",
	"Cache-Control",
	"X-Requested-With",
}, ", ")

func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// HealthCheck reports liveness along with the number of markets still
// awaiting settlement.
func HealthCheck(env string, activeMarkets func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":      "healthy",
			"environment": env,
			"version":     Version,
		}
		if activeMarkets != nil {
			body["active_markets"] = activeMarkets()
		}
		c.JSON(http.StatusOK, body)
	}
}
