package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	domainRepo "github.com/sangkips/landedcost-api/internal/domain/repository"
	"gorm.io/gorm"
)

type supplierOrderLineRepository struct {
	db *gorm.DB
}

// NewSupplierOrderLineRepository creates a new order line repository
func NewSupplierOrderLineRepository(db *gorm.DB) domainRepo.SupplierOrderLineRepository {
	return &supplierOrderLineRepository{db: db}
}

func (r *supplierOrderLineRepository) Create(ctx context.Context, line *entity.SupplierOrderLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *supplierOrderLineRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplierOrderLine, error) {
	var line entity.SupplierOrderLine
	err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *supplierOrderLineRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.SupplierOrderLine, error) {
	var lines []entity.SupplierOrderLine
	err := r.db.WithContext(ctx).
		Where("supplier_order_id = ?", orderID).
		Order("position ASC, created_at ASC").
		Find(&lines).Error
	return lines, err
}

func (r *supplierOrderLineRepository) Update(ctx context.Context, line *entity.SupplierOrderLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *supplierOrderLineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SupplierOrderLine{}, "id = ?", id).Error
}

func (r *supplierOrderLineRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SupplierOrderLine{}, "supplier_order_id = ?", orderID).Error
}

func (r *supplierOrderLineRepository) ClearDelivery(ctx context.Context, deliveryID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.SupplierOrderLine{}).
		Where("delivery_id = ?", deliveryID).
		Update("delivery_id", nil).Error
}

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *gorm.DB) domainRepo.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *entity.Delivery) error {
	return r.db.WithContext(ctx).Omit("ShippingAgency").Create(delivery).Error
}

func (r *deliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Delivery, error) {
	var delivery entity.Delivery
	err := r.db.WithContext(ctx).
		Preload("ShippingAgency").
		First(&delivery, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &delivery, err
}

func (r *deliveryRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Delivery, error) {
	var deliveries []entity.Delivery
	err := r.db.WithContext(ctx).
		Preload("ShippingAgency").
		Where("supplier_order_id = ?", orderID).
		Order("position ASC, created_at ASC").
		Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) Update(ctx context.Context, delivery *entity.Delivery) error {
	return r.db.WithContext(ctx).Omit("ShippingAgency").Save(delivery).Error
}

func (r *deliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Delivery{}, "id = ?", id).Error
}

func (r *deliveryRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Delivery{}, "supplier_order_id = ?", orderID).Error
}

func (r *deliveryRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]entity.Delivery, error) {
	var deliveries []entity.Delivery
	err := r.db.WithContext(ctx).
		Preload("ShippingAgency").
		Where("shipping_agency_id = ?", agencyID).
		Find(&deliveries).Error
	return deliveries, err
}
