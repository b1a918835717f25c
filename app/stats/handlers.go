package stats

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

// GetStats handles GET /users/:id/stats
func (h *Handler) GetStats(c *gin.Context) {
	resp, err := h.service.GetStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Stats retrieved successfully", resp)
}

// GetHistory handles GET /users/:id/history?limit=k
func (h *Handler) GetHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			api.BadRequestResponse(c, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := h.service.GetHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}
	api.ListResponse(c, "History retrieved successfully", entries, len(entries))
}
