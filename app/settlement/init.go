package settlement

import "github.com/gin-gonic/gin"

// Dependencies represents the dependencies needed for the settlement routes
type Dependencies struct {
	Service Service
	// Auth guards every route. Nil leaves them open.
	Auth gin.HandlerFunc
}

// Init mounts the organizer routes under /markets/:id
func Init(r *gin.RouterGroup, deps Dependencies) {
	handler := NewHandler(deps.Service)

	group := r.Group("/markets/:id")
	if deps.Auth != nil {
		group.Use(deps.Auth)
	}
	group.POST("/lock", handler.Lock)
	group.POST("/resolve", handler.Resolve)
	group.POST("/cancel", handler.Cancel)
}
