package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/application/service"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/internal/presentation/http/dto/request"
	"github.com/sangkips/landedcost-api/internal/presentation/http/dto/response"
)

// SupplierOrderHandler handles supplier order HTTP requests, including the
// order's lines and deliveries.
type SupplierOrderHandler struct {
	orderService *service.SupplierOrderService
}

// NewSupplierOrderHandler creates a new supplier order handler
func NewSupplierOrderHandler(orderService *service.SupplierOrderService) *SupplierOrderHandler {
	return &SupplierOrderHandler{orderService: orderService}
}

// List handles listing supplier orders
func (h *SupplierOrderHandler) List(c *gin.Context) {
	params := &repository.SupplierOrderFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.SupplierOrderStatus(statusStr)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid status")
			return
		}
		params.Status = &status
	}

	if supplierIDStr := c.Query("supplier_id"); supplierIDStr != "" {
		if supplierID, err := uuid.Parse(supplierIDStr); err == nil {
			params.SupplierID = &supplierID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			end := endDate.Add(24*time.Hour - time.Nanosecond)
			params.EndDate = &end
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Supplier orders retrieved successfully", result)
}

// Create handles creating a supplier order with its lines and deliveries
func (h *SupplierOrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateSupplierOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateSupplierOrderInput{
		UserID:           *userID,
		OrderHeaderInput: headerInput(&req.OrderHeaderRequest),
		Lines:            make([]service.OrderLineInput, len(req.Lines)),
		Deliveries:       make([]service.DeliveryInput, len(req.Deliveries)),
	}
	for i := range req.Lines {
		input.Lines[i] = lineInput(&req.Lines[i])
	}
	for i := range req.Deliveries {
		input.Deliveries[i] = deliveryInput(&req.Deliveries[i])
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supplier order created successfully", order)
}

// Get handles getting a single supplier order
func (h *SupplierOrderHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier order retrieved successfully", order)
}

// Update handles updating the order-level fields
func (h *SupplierOrderHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.OrderHeaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := headerInput(&req)
	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier order updated successfully", order)
}

// Delete handles deleting a supplier order
func (h *SupplierOrderHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier order deleted successfully", nil)
}

// ChangeStatus handles moving an order to another status
func (h *SupplierOrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	status := enum.SupplierOrderStatus(req.Status)
	if !status.IsValid() {
		response.BadRequest(c, "Invalid status")
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier order status updated successfully", order)
}

// AddLine handles adding a line to an order
func (h *SupplierOrderHandler) AddLine(c *gin.Context) {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := lineInput(&req)
	line, err := h.orderService.AddLine(c.Request.Context(), orderID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order line added successfully", line)
}

// UpdateLine handles updating an order line
func (h *SupplierOrderHandler) UpdateLine(c *gin.Context) {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	lineID, ok := paramUUID(c, "line_id")
	if !ok {
		return
	}

	var req request.OrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := lineInput(&req)
	line, err := h.orderService.UpdateLine(c.Request.Context(), orderID, lineID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order line updated successfully", line)
}

// DeleteLine handles removing an order line
func (h *SupplierOrderHandler) DeleteLine(c *gin.Context) {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	lineID, ok := paramUUID(c, "line_id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteLine(c.Request.Context(), orderID, lineID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order line deleted successfully", nil)
}

// AddDelivery handles adding a delivery to an order
func (h *SupplierOrderHandler) AddDelivery(c *gin.Context) {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := deliveryInput(&req)
	delivery, err := h.orderService.AddDelivery(c.Request.Context(), orderID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Delivery added successfully", delivery)
}

// UpdateDelivery handles updating a delivery; its fee is re-quoted
func (h *SupplierOrderHandler) UpdateDelivery(c *gin.Context) {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	deliveryID, ok := paramUUID(c, "delivery_id")
	if !ok {
		return
	}

	var req request.DeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := deliveryInput(&req)
	delivery, err := h.orderService.UpdateDelivery(c.Request.Context(), orderID, deliveryID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery updated successfully", delivery)
}

// DeleteDelivery handles removing a delivery
func (h *SupplierOrderHandler) DeleteDelivery(c *gin.Context) {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	deliveryID, ok := paramUUID(c, "delivery_id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteDelivery(c.Request.Context(), orderID, deliveryID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery deleted successfully", nil)
}

// QuoteDelivery handles a fresh fee estimate for a stored delivery
func (h *SupplierOrderHandler) QuoteDelivery(c *gin.Context) {
	orderID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	deliveryID, ok := paramUUID(c, "delivery_id")
	if !ok {
		return
	}

	estimate, err := h.orderService.QuoteDelivery(c.Request.Context(), orderID, deliveryID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shipping fee estimated", estimate)
}

func headerInput(req *request.OrderHeaderRequest) service.OrderHeaderInput {
	return service.OrderHeaderInput{
		SupplierID:         req.SupplierID,
		Currency:           req.Currency,
		ExchangeRate:       req.ExchangeRate,
		BankFeesSource:     req.BankFeesSource,
		ShippingFeesSource: req.ShippingFeesSource,
		Notes:              req.Notes,
	}
}

func lineInput(req *request.OrderLineRequest) service.OrderLineInput {
	return service.OrderLineInput{
		ProductName:     req.ProductName,
		ProductSKU:      req.ProductSKU,
		Quantity:        req.Quantity,
		UnitPriceSource: req.UnitPriceSource,
		UnitWeightKg:    req.UnitWeightKg,
		UnitVolumeCbm:   req.UnitVolumeCbm,
		DeliveryID:      req.DeliveryID,
		DeliveryIndex:   req.DeliveryIndex,
	}
}

func deliveryInput(req *request.DeliveryRequest) service.DeliveryInput {
	transport, _ := enum.ParseTransportType(req.TransportType)
	return service.DeliveryInput{
		ShippingAgencyID: req.ShippingAgencyID,
		TransportType:    transport,
		ExpressSurcharge: req.ExpressSurcharge,
		WeightKg:         req.WeightKg,
		VolumeCbm:        req.VolumeCbm,
		ShippingFeeLocal: req.ShippingFeeLocal,
		FeeIsManual:      req.FeeIsManual,
		TrackingNo:       req.TrackingNo,
		Status:           enum.DeliveryStatus(req.Status),
	}
}
