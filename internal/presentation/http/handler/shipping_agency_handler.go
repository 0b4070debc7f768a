package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/landedcost-api/internal/application/service"
	"github.com/sangkips/landedcost-api/internal/presentation/http/dto/request"
	"github.com/sangkips/landedcost-api/internal/presentation/http/dto/response"
)

// ShippingAgencyHandler handles shipping agency HTTP requests
type ShippingAgencyHandler struct {
	agencyService *service.ShippingAgencyService
}

// NewShippingAgencyHandler creates a new shipping agency handler
func NewShippingAgencyHandler(agencyService *service.ShippingAgencyService) *ShippingAgencyHandler {
	return &ShippingAgencyHandler{agencyService: agencyService}
}

// List handles listing shipping agencies
func (h *ShippingAgencyHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	result, err := h.agencyService.ListAgencies(c.Request.Context(), pageParams(c), c.Query("search"), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Shipping agencies retrieved successfully", result)
}

// Create handles creating a shipping agency
func (h *ShippingAgencyHandler) Create(c *gin.Context) {
	var req request.ShippingAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	agency, err := h.agencyService.CreateAgency(c.Request.Context(), agencyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Shipping agency created successfully", agency)
}

// Get handles getting a single shipping agency
func (h *ShippingAgencyHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	agency, err := h.agencyService.GetAgency(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shipping agency retrieved successfully", agency)
}

// Update handles updating a shipping agency
func (h *ShippingAgencyHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.ShippingAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	agency, err := h.agencyService.UpdateAgency(c.Request.Context(), id, agencyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shipping agency updated successfully", agency)
}

// Delete handles deleting a shipping agency
func (h *ShippingAgencyHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.agencyService.DeleteAgency(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shipping agency deleted successfully", nil)
}

func agencyInput(req *request.ShippingAgencyRequest) *service.ShippingAgencyInput {
	return &service.ShippingAgencyInput{
		Name:              req.Name,
		ContactPhone:      req.ContactPhone,
		ContactEmail:      req.ContactEmail,
		AirPricePerKg:     req.AirPricePerKg,
		SeaPricePerCbm:    req.SeaPricePerCbm,
		ExpressPricePerKg: req.ExpressPricePerKg,
		Notes:             req.Notes,
		IsActive:          req.IsActive,
	}
}
