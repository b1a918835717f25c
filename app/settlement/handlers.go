package settlement

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/wagerbook/app/api"
)

// Handler handles the organizer actions on a market
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Lock handles POST /markets/:id/lock
func (h *Handler) Lock(c *gin.Context) {
	m, err := h.service.LockAs(c.Request.Context(), c.Param("id"), api.CallerID(c))
	if err != nil {
		var data interface{}
		if m != nil {
			data = ToStatusResponse(m)
		}
		api.DomainErrorResponse(c, err, data)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Market locked", ToStatusResponse(m))
}

// Resolve handles POST /markets/:id/resolve
func (h *Handler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), c.Param("id"), api.CallerID(c), req.WinningOptions)
	if err != nil {
		h.settlementError(c, err, result)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Market resolved", ToSettlementResponse(result))
}

// Cancel handles POST /markets/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	result, err := h.service.Cancel(c.Request.Context(), c.Param("id"), api.CallerID(c))
	if err != nil {
		h.settlementError(c, err, result)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Market cancelled", ToSettlementResponse(result))
}

// settlementError keeps the applied result in the body when only persistence failed.
func (h *Handler) settlementError(c *gin.Context, err error, result *Result) {
	var data interface{}
	if result != nil {
		data = ToSettlementResponse(result)
	}
	api.DomainErrorResponse(c, err, data)
}
