package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/landedcost-api/internal/application/service"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/presentation/http/dto/request"
	"github.com/sangkips/landedcost-api/internal/presentation/http/dto/response"
)

// ShippingHandler serves stateless shipping-fee quotes
type ShippingHandler struct {
	shippingService *service.ShippingService
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(shippingService *service.ShippingService) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// Estimate handles quoting a shipping fee. Missing inputs are not errors:
// the estimate comes back without a fee and with a hint.
func (h *ShippingHandler) Estimate(c *gin.Context) {
	var req request.ShippingEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	transport, _ := enum.ParseTransportType(req.TransportType)
	input := &service.EstimateInput{
		ShippingAgencyID: req.ShippingAgencyID,
		TransportType:    transport,
		ExpressSurcharge: req.ExpressSurcharge,
		WeightKg:         req.WeightKg,
		VolumeCbm:        req.VolumeCbm,
	}
	if req.Rates != nil {
		input.Rates = &costing.Rates{
			AirPricePerKg:     req.Rates.AirPricePerKg,
			SeaPricePerCbm:    req.Rates.SeaPricePerCbm,
			ExpressPricePerKg: req.Rates.ExpressPricePerKg,
		}
	}

	estimate, err := h.shippingService.Estimate(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shipping fee estimated", estimate)
}
