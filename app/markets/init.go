package markets

import (
	"github.com/gin-gonic/gin"
)

// Dependencies represents the dependencies needed for the markets routes
type Dependencies struct {
	Service Service
	Config  *Config
	// Auth guards the mutating routes. Nil leaves them open.
	Auth gin.HandlerFunc
}

// Init mounts the market routes
func Init(r *gin.RouterGroup, deps Dependencies) {
	config := deps.Config
	if config == nil {
		config = GetDefaultConfig()
	}

	if err := config.Validate(); err != nil {
		panic("Invalid markets configuration: " + err.Error())
	}

	handler := NewHandler(deps.Service, config)

	marketsGroup := r.Group("/markets")
	marketsGroup.GET("", handler.ListActive)
	marketsGroup.GET("/:id", handler.GetMarket)
	marketsGroup.GET("/:id/odds", handler.GetOdds)

	guarded := marketsGroup.Group("")
	if deps.Auth != nil {
		guarded.Use(deps.Auth)
	}
	guarded.POST("", handler.CreateMarket)
	guarded.POST("/:id/wagers", handler.PlaceWager)
}
