package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/pkg/pagination"
)

// ShippingAgencyRepository defines the interface for shipping agency data operations
type ShippingAgencyRepository interface {
	Create(ctx context.Context, agency *entity.ShippingAgency) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ShippingAgency, error)
	GetByName(ctx context.Context, name string) (*entity.ShippingAgency, error)
	Update(ctx context.Context, agency *entity.ShippingAgency) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.ShippingAgency, int64, error)
}
