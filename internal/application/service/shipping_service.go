package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ShippingService quotes shipping fees without persisting anything
type ShippingService struct {
	engine     *costing.Engine
	agencyRepo repository.ShippingAgencyRepository
}

// NewShippingService creates a new shipping service
func NewShippingService(engine *costing.Engine, agencyRepo repository.ShippingAgencyRepository) *ShippingService {
	return &ShippingService{
		engine:     engine,
		agencyRepo: agencyRepo,
	}
}

// EstimateInput is a shipping quote request. Rates are taken from the agency
// when ShippingAgencyID is set, else from Rates; with neither the estimate
// reports a missing agency.
type EstimateInput struct {
	ShippingAgencyID *uuid.UUID
	Rates            *costing.Rates
	TransportType    enum.TransportType
	ExpressSurcharge bool
	WeightKg         decimal.NullDecimal
	VolumeCbm        decimal.NullDecimal
}

// Estimate computes the shipping fee for the input
func (s *ShippingService) Estimate(ctx context.Context, input *EstimateInput) (*costing.ShippingEstimate, error) {
	rates := input.Rates
	if input.ShippingAgencyID != nil {
		agency, err := s.agencyRepo.GetByID(ctx, *input.ShippingAgencyID)
		if err != nil {
			return nil, apperror.Internal("load shipping agency", err)
		}
		if agency == nil {
			return nil, apperror.NewNotFoundError("Shipping agency")
		}
		rates = ratesFromAgency(agency)
	}

	estimate := s.engine.EstimateShippingFee(costing.ShippingRequest{
		TransportType:    input.TransportType,
		ExpressSurcharge: input.ExpressSurcharge,
		WeightKg:         input.WeightKg,
		VolumeCbm:        input.VolumeCbm,
	}, rates)
	return &estimate, nil
}
