package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/pkg/apperror"
	"github.com/sangkips/landedcost-api/pkg/logger"
	"github.com/sangkips/landedcost-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ShippingAgencyService handles shipping agency operations
type ShippingAgencyService struct {
	agencyRepo   repository.ShippingAgencyRepository
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.SupplierOrderRepository
	engine       *costing.Engine
}

// NewShippingAgencyService creates a new shipping agency service
func NewShippingAgencyService(
	agencyRepo repository.ShippingAgencyRepository,
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.SupplierOrderRepository,
	engine *costing.Engine,
) *ShippingAgencyService {
	return &ShippingAgencyService{
		agencyRepo:   agencyRepo,
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		engine:       engine,
	}
}

// ShippingAgencyInput represents the create/update agency input
type ShippingAgencyInput struct {
	Name              string
	ContactPhone      *string
	ContactEmail      *string
	AirPricePerKg     decimal.Decimal
	SeaPricePerCbm    decimal.Decimal
	ExpressPricePerKg decimal.NullDecimal
	Notes             *string
	IsActive          *bool
}

func errAgencyNameTaken() error {
	return apperror.NewConflictError("A shipping agency with this name already exists")
}

func (in *ShippingAgencyInput) validate() error {
	var v apperror.Validator
	v.Check(in.Name != "", "name", "Name is required")
	v.Check(!in.AirPricePerKg.IsNegative(), "air_price_per_kg", "Must not be negative")
	v.Check(!in.SeaPricePerCbm.IsNegative(), "sea_price_per_cbm", "Must not be negative")
	v.Check(!in.ExpressPricePerKg.Valid || !in.ExpressPricePerKg.Decimal.IsNegative(), "express_price_per_kg", "Must not be negative")
	return v.Err()
}

// CreateAgency creates a new shipping agency
func (s *ShippingAgencyService) CreateAgency(ctx context.Context, input *ShippingAgencyInput) (*entity.ShippingAgency, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.agencyRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errAgencyNameTaken()
	}

	agency := &entity.ShippingAgency{IsActive: true}
	applyAgencyInput(agency, input)

	if err := s.agencyRepo.Create(ctx, agency); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errAgencyNameTaken()
		}
		return nil, err
	}
	return agency, nil
}

// GetAgency retrieves a shipping agency by ID
func (s *ShippingAgencyService) GetAgency(ctx context.Context, id uuid.UUID) (*entity.ShippingAgency, error) {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, apperror.NewNotFoundError("Shipping agency")
	}
	return agency, nil
}

// ListAgencies lists shipping agencies
func (s *ShippingAgencyService) ListAgencies(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) (*pagination.PaginatedResult[entity.ShippingAgency], error) {
	agencies, total, err := s.agencyRepo.List(ctx, params, search, activeOnly)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(agencies, pag), nil
}

// UpdateAgency updates an agency and re-quotes the deliveries of open orders
// that use it, so their stored fees follow the new prices.
func (s *ShippingAgencyService) UpdateAgency(ctx context.Context, id uuid.UUID, input *ShippingAgencyInput) (*entity.ShippingAgency, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	agency, err := s.GetAgency(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != agency.Name {
		existing, err := s.agencyRepo.GetByName(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, errAgencyNameTaken()
		}
	}

	applyAgencyInput(agency, input)
	if err := s.agencyRepo.Update(ctx, agency); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errAgencyNameTaken()
		}
		return nil, err
	}

	if err := s.requoteDeliveries(ctx, agency); err != nil {
		return nil, err
	}
	return agency, nil
}

func (s *ShippingAgencyService) requoteDeliveries(ctx context.Context, agency *entity.ShippingAgency) error {
	deliveries, err := s.deliveryRepo.ListByAgency(ctx, agency.ID)
	if err != nil {
		return err
	}

	editable := make(map[uuid.UUID]bool)
	requoted := 0
	for i := range deliveries {
		d := &deliveries[i]
		if d.FeeIsManual {
			continue
		}

		open, seen := editable[d.SupplierOrderID]
		if !seen {
			order, err := s.orderRepo.GetByID(ctx, d.SupplierOrderID)
			if err != nil {
				return err
			}
			open = order != nil && order.IsEditable()
			editable[d.SupplierOrderID] = open
		}
		if !open {
			continue
		}

		d.ShippingAgency = agency
		quoteDelivery(s.engine, d)
		if err := s.deliveryRepo.Update(ctx, d); err != nil {
			return err
		}
		requoted++
	}

	if requoted > 0 {
		logger.Info().
			Str("agency_id", agency.ID.String()).
			Int("deliveries", requoted).
			Msg("re-quoted deliveries after rate change")
	}
	return nil
}

// DeleteAgency deletes a shipping agency. Agencies still quoted on deliveries
// are deactivated instead.
func (s *ShippingAgencyService) DeleteAgency(ctx context.Context, id uuid.UUID) error {
	agency, err := s.GetAgency(ctx, id)
	if err != nil {
		return err
	}

	deliveries, err := s.deliveryRepo.ListByAgency(ctx, id)
	if err != nil {
		return err
	}
	if len(deliveries) > 0 {
		agency.IsActive = false
		return s.agencyRepo.Update(ctx, agency)
	}

	return s.agencyRepo.Delete(ctx, id)
}

func applyAgencyInput(agency *entity.ShippingAgency, input *ShippingAgencyInput) {
	agency.Name = input.Name
	agency.ContactPhone = input.ContactPhone
	agency.ContactEmail = input.ContactEmail
	agency.AirPricePerKg = input.AirPricePerKg
	agency.SeaPricePerCbm = input.SeaPricePerCbm
	agency.ExpressPricePerKg = input.ExpressPricePerKg
	agency.Notes = input.Notes
	if input.IsActive != nil {
		agency.IsActive = *input.IsActive
	}
}

// quoteDelivery stores a fresh estimate on a delivery unless its fee was
// entered by hand. A delivery without a computable fee keeps an empty fee.
func quoteDelivery(engine *costing.Engine, d *entity.Delivery) costing.ShippingEstimate {
	estimate := engine.EstimateShippingFee(costingDelivery(d).ShippingRequest(), ratesFromAgency(d.ShippingAgency))
	if d.FeeIsManual {
		return estimate
	}
	d.ShippingFeeLocal = estimate.Fee
	d.FeeTrace = estimate.Trace
	if d.FeeTrace == "" {
		d.FeeTrace = estimate.Hint
	}
	return estimate
}
