package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/internal/infrastructure/messaging"
	"github.com/sangkips/landedcost-api/pkg/apperror"
	"github.com/sangkips/landedcost-api/pkg/logger"
	"github.com/sangkips/landedcost-api/pkg/pagination"
	"github.com/sangkips/landedcost-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// SupplierOrderService handles supplier orders with their lines and deliveries
type SupplierOrderService struct {
	orderRepo    repository.SupplierOrderRepository
	lineRepo     repository.SupplierOrderLineRepository
	deliveryRepo repository.DeliveryRepository
	supplierRepo repository.SupplierRepository
	agencyRepo   repository.ShippingAgencyRepository
	engine       *costing.Engine
	publisher    messaging.EventPublisher
	now          func() time.Time
}

// NewSupplierOrderService creates a new supplier order service
func NewSupplierOrderService(
	orderRepo repository.SupplierOrderRepository,
	lineRepo repository.SupplierOrderLineRepository,
	deliveryRepo repository.DeliveryRepository,
	supplierRepo repository.SupplierRepository,
	agencyRepo repository.ShippingAgencyRepository,
	engine *costing.Engine,
	publisher messaging.EventPublisher,
) *SupplierOrderService {
	return &SupplierOrderService{
		orderRepo:    orderRepo,
		lineRepo:     lineRepo,
		deliveryRepo: deliveryRepo,
		supplierRepo: supplierRepo,
		agencyRepo:   agencyRepo,
		engine:       engine,
		publisher:    publisher,
		now:          time.Now,
	}
}

// OrderLineInput represents a product line of an order.
// DeliveryIndex links a line to a delivery of the same create request;
// DeliveryID links it to an existing delivery.
type OrderLineInput struct {
	ProductName     string
	ProductSKU      *string
	Quantity        int
	UnitPriceSource decimal.NullDecimal
	UnitWeightKg    decimal.NullDecimal
	UnitVolumeCbm   decimal.NullDecimal
	DeliveryID      *uuid.UUID
	DeliveryIndex   *int
}

// DeliveryInput represents a delivery of an order. ShippingFeeLocal is only
// kept when FeeIsManual is set; otherwise the fee is quoted from the agency.
type DeliveryInput struct {
	ShippingAgencyID *uuid.UUID
	TransportType    enum.TransportType
	ExpressSurcharge bool
	WeightKg         decimal.NullDecimal
	VolumeCbm        decimal.NullDecimal
	ShippingFeeLocal decimal.NullDecimal
	FeeIsManual      bool
	TrackingNo       *string
	Status           enum.DeliveryStatus
}

// OrderHeaderInput holds the order-level fields
type OrderHeaderInput struct {
	SupplierID         *uuid.UUID
	Currency           string
	ExchangeRate       decimal.NullDecimal
	BankFeesSource     decimal.Decimal
	ShippingFeesSource decimal.Decimal
	Notes              *string
}

// CreateSupplierOrderInput represents the create supplier order input
type CreateSupplierOrderInput struct {
	UserID uuid.UUID
	OrderHeaderInput
	Lines      []OrderLineInput
	Deliveries []DeliveryInput
}

// CreateOrder creates a draft order with its deliveries and lines
func (s *SupplierOrderService) CreateOrder(ctx context.Context, input *CreateSupplierOrderInput) (*entity.SupplierOrder, error) {
	var v apperror.Validator
	validateHeader(&v, &input.OrderHeaderInput)
	for i := range input.Deliveries {
		validateDelivery(&v, fmt.Sprintf("deliveries[%d].", i), &input.Deliveries[i])
	}
	for i := range input.Lines {
		line := &input.Lines[i]
		prefix := fmt.Sprintf("lines[%d].", i)
		validateLine(&v, prefix, line)
		v.Check(line.DeliveryID == nil, prefix+"delivery_id", "Use delivery_index when creating an order")
		v.Check(line.DeliveryIndex == nil || (*line.DeliveryIndex >= 0 && *line.DeliveryIndex < len(input.Deliveries)),
			prefix+"delivery_index", "Must reference a delivery of this order")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.checkSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	order := &entity.SupplierOrder{
		ID:          uuid.New(),
		OrderNo:     utils.GenerateOrderNo(),
		CreatedByID: &input.UserID,
		Status:      enum.SupplierOrderDraft,
	}
	applyHeader(order, &input.OrderHeaderInput)

	order.Deliveries = make([]entity.Delivery, len(input.Deliveries))
	for i := range input.Deliveries {
		d := &order.Deliveries[i]
		*d = entity.Delivery{ID: uuid.New(), SupplierOrderID: order.ID, Position: i, Status: enum.DeliveryPending}
		if err := s.prepareDelivery(ctx, d, &input.Deliveries[i]); err != nil {
			return nil, err
		}
	}

	order.Lines = make([]entity.SupplierOrderLine, len(input.Lines))
	for i := range input.Lines {
		in := &input.Lines[i]
		line := &order.Lines[i]
		*line = entity.SupplierOrderLine{SupplierOrderID: order.ID, Position: i}
		applyLine(line, in)
		if in.DeliveryIndex != nil {
			id := order.Deliveries[*in.DeliveryIndex].ID
			line.DeliveryID = &id
		}
	}

	if err := s.orderRepo.CreateWithDetails(ctx, order); err != nil {
		return nil, err
	}

	logger.Info().
		Str("order_no", order.OrderNo).
		Int("lines", len(order.Lines)).
		Int("deliveries", len(order.Deliveries)).
		Msg("supplier order created")

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// GetOrder retrieves an order with its supplier, lines and deliveries
func (s *SupplierOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.SupplierOrder, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Supplier order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *SupplierOrderService) ListOrders(ctx context.Context, params *repository.SupplierOrderFilterParams) (*pagination.PaginatedResult[entity.SupplierOrder], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// UpdateOrder updates the order-level fields
func (s *SupplierOrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input *OrderHeaderInput) (*entity.SupplierOrder, error) {
	var v apperror.Validator
	validateHeader(&v, input)
	if err := v.Err(); err != nil {
		return nil, err
	}

	order, err := s.editableOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	applyHeader(order, input)
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return s.orderRepo.GetWithDetails(ctx, id)
}

// DeleteOrder deletes an order that has not been received
func (s *SupplierOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Supplier order")
	}
	if order.Status == enum.SupplierOrderReceived {
		return apperror.NewConflictError("Received orders cannot be deleted")
	}
	return s.orderRepo.Delete(ctx, id)
}

// ChangeStatus moves an order along draft, ordered, shipped, received.
// Reaching received publishes the landed unit cost of every line.
func (s *SupplierOrderService) ChangeStatus(ctx context.Context, id uuid.UUID, next enum.SupplierOrderStatus) (*entity.SupplierOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Supplier order")
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Cannot change status from %s to %s", order.Status, next))
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, next, s.now()); err != nil {
		return nil, err
	}

	order, err = s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}

	if next == enum.SupplierOrderReceived {
		s.publishReceived(ctx, order)
	}
	return order, nil
}

func (s *SupplierOrderService) publishReceived(ctx context.Context, order *entity.SupplierOrder) {
	report := s.engine.Summarize(costingOrder(order))
	event := receivedEvent(order, &report, s.engine.LocalCurrency(), s.now())

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Error().Err(err).
			Str("order_no", order.OrderNo).
			Msg("failed to publish supplier order event")
		return
	}
	logger.Info().Str("order_no", order.OrderNo).Str("event", event.Type).Msg("supplier order event published")
}

func receivedEvent(order *entity.SupplierOrder, report *costing.Report, localCurrency string, at time.Time) *messaging.SupplierOrderEvent {
	skus := make(map[uuid.UUID]*string, len(order.Lines))
	for _, l := range order.Lines {
		skus[l.ID] = l.ProductSKU
	}

	event := &messaging.SupplierOrderEvent{
		Type:          messaging.EventSupplierOrderReceived,
		OrderID:       order.ID,
		OrderNo:       order.OrderNo,
		LocalCurrency: localCurrency,
		TotalCost:     report.Totals.TotalCostPriceLocal,
		ExchangeRate:  order.ExchangeRate,
		Lines:         make([]messaging.LineCostEvent, 0, len(report.Lines)),
		OccurredAt:    at,
	}
	for _, lc := range report.Lines {
		event.Lines = append(event.Lines, messaging.LineCostEvent{
			LineID:        lc.LineID,
			ProductName:   lc.ProductName,
			ProductSKU:    skus[lc.LineID],
			Quantity:      lc.Quantity,
			UnitCostPrice: lc.UnitCostPrice,
		})
	}
	return event
}

// AddLine appends a line to an editable order
func (s *SupplierOrderService) AddLine(ctx context.Context, orderID uuid.UUID, input *OrderLineInput) (*entity.SupplierOrderLine, error) {
	var v apperror.Validator
	validateLine(&v, "", input)
	v.Check(input.DeliveryIndex == nil, "delivery_index", "Use delivery_id when the order already exists")
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.editableOrder(ctx, orderID); err != nil {
		return nil, err
	}
	if err := s.checkDeliveryOfOrder(ctx, orderID, input.DeliveryID); err != nil {
		return nil, err
	}

	existing, err := s.lineRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	line := &entity.SupplierOrderLine{SupplierOrderID: orderID, Position: len(existing)}
	applyLine(line, input)
	line.DeliveryID = input.DeliveryID

	if err := s.lineRepo.Create(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLine replaces the fields of a line
func (s *SupplierOrderService) UpdateLine(ctx context.Context, orderID, lineID uuid.UUID, input *OrderLineInput) (*entity.SupplierOrderLine, error) {
	var v apperror.Validator
	validateLine(&v, "", input)
	v.Check(input.DeliveryIndex == nil, "delivery_index", "Use delivery_id when the order already exists")
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.editableOrder(ctx, orderID); err != nil {
		return nil, err
	}
	line, err := s.lineOfOrder(ctx, orderID, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDeliveryOfOrder(ctx, orderID, input.DeliveryID); err != nil {
		return nil, err
	}

	applyLine(line, input)
	line.DeliveryID = input.DeliveryID

	if err := s.lineRepo.Update(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// DeleteLine removes a line from an editable order
func (s *SupplierOrderService) DeleteLine(ctx context.Context, orderID, lineID uuid.UUID) error {
	if _, err := s.editableOrder(ctx, orderID); err != nil {
		return err
	}
	if _, err := s.lineOfOrder(ctx, orderID, lineID); err != nil {
		return err
	}
	return s.lineRepo.Delete(ctx, lineID)
}

// AddDelivery adds a delivery and quotes its fee
func (s *SupplierOrderService) AddDelivery(ctx context.Context, orderID uuid.UUID, input *DeliveryInput) (*entity.Delivery, error) {
	var v apperror.Validator
	validateDelivery(&v, "", input)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.editableOrder(ctx, orderID); err != nil {
		return nil, err
	}

	existing, err := s.deliveryRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	d := &entity.Delivery{SupplierOrderID: orderID, Position: len(existing), Status: enum.DeliveryPending}
	if err := s.saveDelivery(ctx, d, input, true); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDelivery replaces the fields of a delivery and re-quotes its fee
// unless the fee is manual.
func (s *SupplierOrderService) UpdateDelivery(ctx context.Context, orderID, deliveryID uuid.UUID, input *DeliveryInput) (*entity.Delivery, error) {
	var v apperror.Validator
	validateDelivery(&v, "", input)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.editableOrder(ctx, orderID); err != nil {
		return nil, err
	}
	d, err := s.deliveryOfOrder(ctx, orderID, deliveryID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" && !d.Status.CanTransitionTo(input.Status) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Cannot change delivery status from %s to %s", d.Status, input.Status))
	}

	if err := s.saveDelivery(ctx, d, input, false); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDelivery removes a delivery; its lines fall back to the order's
// first delivery.
func (s *SupplierOrderService) DeleteDelivery(ctx context.Context, orderID, deliveryID uuid.UUID) error {
	if _, err := s.editableOrder(ctx, orderID); err != nil {
		return err
	}
	if _, err := s.deliveryOfOrder(ctx, orderID, deliveryID); err != nil {
		return err
	}

	if err := s.lineRepo.ClearDelivery(ctx, deliveryID); err != nil {
		return err
	}
	return s.deliveryRepo.Delete(ctx, deliveryID)
}

// QuoteDelivery returns a fresh estimate for a stored delivery without saving
func (s *SupplierOrderService) QuoteDelivery(ctx context.Context, orderID, deliveryID uuid.UUID) (*costing.ShippingEstimate, error) {
	d, err := s.deliveryOfOrder(ctx, orderID, deliveryID)
	if err != nil {
		return nil, err
	}
	estimate := s.engine.EstimateShippingFee(costingDelivery(d).ShippingRequest(), ratesFromAgency(d.ShippingAgency))
	return &estimate, nil
}

func (s *SupplierOrderService) saveDelivery(ctx context.Context, d *entity.Delivery, input *DeliveryInput, create bool) error {
	if err := s.prepareDelivery(ctx, d, input); err != nil {
		return err
	}
	if create {
		return s.deliveryRepo.Create(ctx, d)
	}
	return s.deliveryRepo.Update(ctx, d)
}

// prepareDelivery applies the input to d and re-quotes its fee without saving.
func (s *SupplierOrderService) prepareDelivery(ctx context.Context, d *entity.Delivery, input *DeliveryInput) error {
	d.ShippingAgency = nil
	if input.ShippingAgencyID != nil {
		agency, err := s.agencyRepo.GetByID(ctx, *input.ShippingAgencyID)
		if err != nil {
			return err
		}
		if agency == nil {
			return apperror.NewNotFoundError("Shipping agency")
		}
		d.ShippingAgency = agency
	}

	d.ShippingAgencyID = input.ShippingAgencyID
	d.TransportType = input.TransportType
	d.ExpressSurcharge = input.ExpressSurcharge
	d.WeightKg = input.WeightKg
	d.VolumeCbm = input.VolumeCbm
	d.TrackingNo = input.TrackingNo
	d.FeeIsManual = input.FeeIsManual
	if d.FeeIsManual {
		d.ShippingFeeLocal = input.ShippingFeeLocal
		d.FeeTrace = "Entered manually"
	}

	if input.Status != "" && input.Status != d.Status {
		now := s.now()
		switch input.Status {
		case enum.DeliveryInTransit:
			d.ShippedAt = &now
		case enum.DeliveryArrived:
			if d.ShippedAt == nil {
				d.ShippedAt = &now
			}
			d.ArrivedAt = &now
		}
		d.Status = input.Status
	}

	quoteDelivery(s.engine, d)
	return nil
}

func (s *SupplierOrderService) editableOrder(ctx context.Context, id uuid.UUID) (*entity.SupplierOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Supplier order")
	}
	if !order.IsEditable() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Order is %s and can no longer be changed", order.Status))
	}
	return order, nil
}

func (s *SupplierOrderService) lineOfOrder(ctx context.Context, orderID, lineID uuid.UUID) (*entity.SupplierOrderLine, error) {
	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil || line.SupplierOrderID != orderID {
		return nil, apperror.NewNotFoundError("Order line")
	}
	return line, nil
}

func (s *SupplierOrderService) deliveryOfOrder(ctx context.Context, orderID, deliveryID uuid.UUID) (*entity.Delivery, error) {
	d, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.SupplierOrderID != orderID {
		return nil, apperror.NewNotFoundError("Delivery")
	}
	return d, nil
}

func (s *SupplierOrderService) checkDeliveryOfOrder(ctx context.Context, orderID uuid.UUID, deliveryID *uuid.UUID) error {
	if deliveryID == nil {
		return nil
	}
	_, err := s.deliveryOfOrder(ctx, orderID, *deliveryID)
	return err
}

func (s *SupplierOrderService) checkSupplier(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	supplier, err := s.supplierRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}
	return nil
}

func validateHeader(v *apperror.Validator, in *OrderHeaderInput) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	v.Check(len(in.Currency) == 3, "currency", "Must be a 3-letter currency code")
	v.Check(!in.ExchangeRate.Valid || !in.ExchangeRate.Decimal.IsNegative(), "exchange_rate", "Must not be negative")
	v.Check(!in.BankFeesSource.IsNegative(), "bank_fees_source", "Must not be negative")
	v.Check(!in.ShippingFeesSource.IsNegative(), "shipping_fees_source", "Must not be negative")
}

func validateLine(v *apperror.Validator, prefix string, in *OrderLineInput) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	v.Check(in.ProductName != "", prefix+"product_name", "Product name is required")
	v.Check(in.Quantity >= 1, prefix+"quantity", "Quantity must be at least 1")
	v.Check(nonNegative(in.UnitPriceSource), prefix+"unit_price_source", "Must not be negative")
	v.Check(nonNegative(in.UnitWeightKg), prefix+"unit_weight_kg", "Must not be negative")
	v.Check(nonNegative(in.UnitVolumeCbm), prefix+"unit_volume_cbm", "Must not be negative")
}

func validateDelivery(v *apperror.Validator, prefix string, in *DeliveryInput) {
	v.Check(in.TransportType.IsValid(), prefix+"transport_type", "Must be one of air, sea, express")
	v.Check(nonNegative(in.WeightKg), prefix+"weight_kg", "Must not be negative")
	v.Check(nonNegative(in.VolumeCbm), prefix+"volume_cbm", "Must not be negative")
	v.Check(!in.FeeIsManual || nonNegative(in.ShippingFeeLocal), prefix+"shipping_fee_local", "Must not be negative")
	v.Check(in.Status == "" || in.Status.IsValid(), prefix+"status", "Must be one of pending, in_transit, arrived")
}

func nonNegative(d decimal.NullDecimal) bool {
	return !d.Valid || !d.Decimal.IsNegative()
}

func applyHeader(order *entity.SupplierOrder, in *OrderHeaderInput) {
	order.SupplierID = in.SupplierID
	order.Currency = in.Currency
	order.ExchangeRate = in.ExchangeRate
	order.BankFeesSource = in.BankFeesSource
	order.ShippingFeesSource = in.ShippingFeesSource
	order.Notes = in.Notes
}

func applyLine(line *entity.SupplierOrderLine, in *OrderLineInput) {
	line.ProductName = in.ProductName
	line.ProductSKU = in.ProductSKU
	line.Quantity = in.Quantity
	line.UnitPriceSource = in.UnitPriceSource
	line.UnitWeightKg = in.UnitWeightKg
	line.UnitVolumeCbm = in.UnitVolumeCbm
}
