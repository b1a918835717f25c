package stats

import "github.com/gin-gonic/gin"

type Dependencies struct {
	Service Service
}

// Init mounts the stats routes
func Init(r *gin.RouterGroup, deps Dependencies) {
	handler := NewHandler(deps.Service)

	users := r.Group("/users")
	users.GET("/:id/stats", handler.GetStats)
	users.GET("/:id/history", handler.GetHistory)
}
