package ledger

import (
	"github.com/gin-gonic/gin"
)

// Dependencies represents the dependencies needed for the ledger routes
type Dependencies struct {
	Service Service
}

// Init mounts the ledger routes
func Init(r *gin.RouterGroup, deps Dependencies) {
	handler := NewHandler(deps.Service)

	r.GET("/users/:id/balance", handler.GetBalance)
	r.GET("/leaderboard", handler.GetLeaderboard)
}
