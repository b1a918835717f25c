package ledger

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/wagerbook/app/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetBalance handles GET /users/:id/balance
func (h *Handler) GetBalance(c *gin.Context) {
	resp, err := h.service.GetBalance(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Balance retrieved successfully", resp)
}

// GetLeaderboard handles GET /leaderboard?limit=k
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.BadRequestResponse(c, "limit must be an integer")
			return
		}
		limit = n
	}

	accounts, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}
	entries := ToLeaderboard(accounts)
	api.ListResponse(c, "Leaderboard retrieved successfully", entries, len(entries))
}
