package handler

import (
	rateapp "github.com/ferrepos/backend/internal/application/rate"
	"github.com/gin-gonic/gin"
)

// RateHandler exposes the current exchange rate
type RateHandler struct {
	BaseHandler
	rateService *rateapp.RateService
}

// NewRateHandler creates a new RateHandler
func NewRateHandler(rateService *rateapp.RateService) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// Current returns the USD/VES rate the next sale would freeze
func (h *RateHandler) Current(c *gin.Context) {
	quote, err := h.rateService.CurrentRate(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}
