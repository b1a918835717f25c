package markets

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joefazee/wagerbook/app/api"
	"github.com/joefazee/wagerbook/internal/validator"
)

// Handler handles HTTP requests for markets
type Handler struct {
	service Service
	odds    OddsEngine
	config  *Config
}

// NewHandler creates a new market handler
func NewHandler(service Service, config *Config) *Handler {
	return &Handler{service: service, odds: NewOddsEngine(config), config: config}
}

// bindJSONRequest binds JSON request body to the provided struct
func (h *Handler) bindJSONRequest(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return false
	}
	return true
}

// ListActive handles GET /markets
func (h *Handler) ListActive(c *gin.Context) {
	markets := h.service.ListActive(c.Request.Context())
	resp := ToMarketResponseList(markets, h.odds)
	api.ListResponse(c, "Active markets retrieved successfully", resp, len(resp))
}

// GetMarket handles GET /markets/:id
func (h *Handler) GetMarket(c *gin.Context) {
	m, err := h.service.GetMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Market retrieved successfully", ToMarketResponse(m, h.odds.ComputeDynamicOdds(m)))
}

// GetOdds handles GET /markets/:id/odds
func (h *Handler) GetOdds(c *gin.Context) {
	id := c.Param("id")
	dynamic, err := h.service.DynamicOdds(c.Request.Context(), id)
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}
	m, err := h.service.GetMarket(c.Request.Context(), id)
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}

	resp := &OddsResponse{MarketID: m.ID, TotalPool: m.TotalPool, Dynamic: dynamic}
	for _, o := range m.Options {
		resp.Fixed = append(resp.Fixed, o.FixedOdds)
	}
	api.SuccessResponse(c, http.StatusOK, "Odds retrieved successfully", resp)
}

// CreateMarket handles POST /markets
func (h *Handler) CreateMarket(c *gin.Context) {
	var req CreateMarketRequest
	if !h.bindJSONRequest(c, &req) {
		return
	}

	v := validator.New()
	v.Check(validator.MaxRunes(req.Question, h.config.MaxQuestionLength), "question", "question is too long")
	for _, o := range req.Options {
		v.Check(validator.MaxRunes(o.Name, h.config.MaxOptionLength), "options", "option name is too long")
	}
	if !v.Valid() {
		api.ValidationErrorResponse(c, v.Errors)
		return
	}

	req.CreatorID = api.CallerID(c)
	m, err := h.service.CreateMarket(c.Request.Context(), &req)
	if err != nil {
		var data interface{}
		if m != nil {
			data = ToMarketResponse(m, nil)
		}
		api.DomainErrorResponse(c, err, data)
		return
	}
	api.CreatedResponse(c, "Market created successfully", ToMarketResponse(m, nil))
}

// PlaceWager handles POST /markets/:id/wagers
func (h *Handler) PlaceWager(c *gin.Context) {
	var req PlaceWagerRequest
	if !h.bindJSONRequest(c, &req) {
		return
	}
	amount, err := req.WholeAmount()
	if err != nil {
		api.DomainErrorResponse(c, err, nil)
		return
	}

	w, err := h.service.PlaceWager(c.Request.Context(), c.Param("id"), api.CallerID(c), *req.OptionIndex, amount)
	if err != nil {
		var data interface{}
		if w != nil {
			data = ToWagerResponse(w)
		}
		api.DomainErrorResponse(c, err, data)
		return
	}
	api.CreatedResponse(c, "Wager placed successfully", ToWagerResponse(w))
}
