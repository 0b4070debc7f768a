package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	domainRepo "github.com/sangkips/landedcost-api/internal/domain/repository"
	"gorm.io/gorm"
)

var supplierOrderSortColumns = map[string]bool{
	"created_at": true,
	"ordered_at": true,
	"order_no":   true,
	"status":     true,
}

type supplierOrderRepository struct {
	db *gorm.DB
}

// NewSupplierOrderRepository creates a new supplier order repository
func NewSupplierOrderRepository(db *gorm.DB) domainRepo.SupplierOrderRepository {
	return &supplierOrderRepository{db: db}
}

func (r *supplierOrderRepository) CreateWithDetails(ctx context.Context, order *entity.SupplierOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Supplier", "Lines", "Deliveries").Create(order).Error; err != nil {
			return err
		}
		if len(order.Deliveries) > 0 {
			for i := range order.Deliveries {
				order.Deliveries[i].SupplierOrderID = order.ID
			}
			if err := tx.Omit("ShippingAgency").Create(&order.Deliveries).Error; err != nil {
				return err
			}
		}
		if len(order.Lines) > 0 {
			for i := range order.Lines {
				order.Lines[i].SupplierOrderID = order.ID
			}
			if err := tx.Create(&order.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *supplierOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplierOrder, error) {
	var order entity.SupplierOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *supplierOrderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.SupplierOrder, error) {
	var order entity.SupplierOrder
	err := r.withDetails(r.db.WithContext(ctx)).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *supplierOrderRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Supplier").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Deliveries.ShippingAgency")
}

// Update saves the order row only; lines and deliveries have their own repositories.
func (r *supplierOrderRepository) Update(ctx context.Context, order *entity.SupplierOrder) error {
	return r.db.WithContext(ctx).Omit("Supplier", "Lines", "Deliveries").Save(order).Error
}

func (r *supplierOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SupplierOrderStatus, at time.Time) error {
	updates := map[string]interface{}{"status": status}
	switch status {
	case enum.SupplierOrderOrdered:
		updates["ordered_at"] = at
	case enum.SupplierOrderReceived:
		updates["received_at"] = at
	}
	return r.db.WithContext(ctx).Model(&entity.SupplierOrder{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the order together with its lines and deliveries.
func (r *supplierOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.SupplierOrderLine{}, "supplier_order_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.Delivery{}, "supplier_order_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.SupplierOrder{}, "id = ?", id).Error
	})
}

func (r *supplierOrderRepository) List(ctx context.Context, params *domainRepo.SupplierOrderFilterParams) ([]entity.SupplierOrder, int64, error) {
	var orders []entity.SupplierOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SupplierOrder{})

	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("order_no ILIKE ? OR notes ILIKE ?", like, like)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if supplierOrderSortColumns[params.SortBy] {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Supplier").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

func (r *supplierOrderRepository) CountByStatus(ctx context.Context) (map[enum.SupplierOrderStatus]int64, error) {
	var rows []struct {
		Status enum.SupplierOrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.SupplierOrder{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enum.SupplierOrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *supplierOrderRepository) ListOpenWithDetails(ctx context.Context) ([]entity.SupplierOrder, error) {
	var orders []entity.SupplierOrder
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("status NOT IN ?", []enum.SupplierOrderStatus{
			enum.SupplierOrderReceived,
			enum.SupplierOrderCancelled,
		}).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
