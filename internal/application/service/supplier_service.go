package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/pkg/apperror"
	"github.com/sangkips/landedcost-api/pkg/pagination"
)

// SupplierService handles supplier operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// SupplierInput represents the create/update supplier input
type SupplierInput struct {
	UserID  uuid.UUID
	Name    string
	Email   *string
	Phone   *string
	Address *string
	Country *string
	ShopURL *string
	Type    enum.SupplierType
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *SupplierInput) (*entity.Supplier, error) {
	if err := s.validate(ctx, uuid.Nil, input); err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{CreatedByID: &input.UserID}
	applySupplierInput(supplier, input)

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers with pagination
func (s *SupplierService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// UpdateSupplier updates a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, input *SupplierInput) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, id, input); err != nil {
		return nil, err
	}

	applySupplierInput(supplier, input)
	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier deletes a supplier. Existing orders keep their supplier_id.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}
	return s.supplierRepo.Delete(ctx, id)
}

func (s *SupplierService) validate(ctx context.Context, id uuid.UUID, input *SupplierInput) error {
	var v apperror.Validator
	v.Check(input.Name != "", "name", "Name is required")
	v.Check(input.Type == "" || input.Type.IsValid(), "type", "Must be one of manufacturer, wholesaler, marketplace, agent")
	if err := v.Err(); err != nil {
		return err
	}

	if input.Email != nil && *input.Email != "" {
		existing, err := s.supplierRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return apperror.NewConflictError("A supplier with this email already exists")
		}
	}
	return nil
}

func applySupplierInput(supplier *entity.Supplier, input *SupplierInput) {
	supplier.Name = input.Name
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.Address = input.Address
	supplier.Country = input.Country
	supplier.ShopURL = input.ShopURL
	supplier.Type = input.Type
	if supplier.Type == "" {
		supplier.Type = enum.SupplierTypeWholesaler
	}
}
