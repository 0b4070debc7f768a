package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	domainRepo "github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/pkg/pagination"
	"gorm.io/gorm"
)

type shippingAgencyRepository struct {
	db *gorm.DB
}

// NewShippingAgencyRepository creates a new shipping agency repository
func NewShippingAgencyRepository(db *gorm.DB) domainRepo.ShippingAgencyRepository {
	return &shippingAgencyRepository{db: db}
}

func (r *shippingAgencyRepository) Create(ctx context.Context, agency *entity.ShippingAgency) error {
	return translateError(r.db.WithContext(ctx).Create(agency).Error)
}

func (r *shippingAgencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ShippingAgency, error) {
	var agency entity.ShippingAgency
	err := r.db.WithContext(ctx).First(&agency, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agency, err
}

func (r *shippingAgencyRepository) GetByName(ctx context.Context, name string) (*entity.ShippingAgency, error) {
	var agency entity.ShippingAgency
	err := r.db.WithContext(ctx).First(&agency, "LOWER(name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agency, err
}

func (r *shippingAgencyRepository) Update(ctx context.Context, agency *entity.ShippingAgency) error {
	return translateError(r.db.WithContext(ctx).Save(agency).Error)
}

func (r *shippingAgencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ShippingAgency{}, "id = ?", id).Error
}

func (r *shippingAgencyRepository) List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.ShippingAgency, int64, error) {
	var agencies []entity.ShippingAgency
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ShippingAgency{})

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&agencies).Error

	return agencies, total, err
}
