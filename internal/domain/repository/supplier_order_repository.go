package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/pkg/pagination"
)

// SupplierOrderRepository defines the interface for supplier order data operations
type SupplierOrderRepository interface {
	// CreateWithDetails inserts the order with its deliveries and lines in one
	// transaction. Line DeliveryIDs must reference deliveries of the same order.
	CreateWithDetails(ctx context.Context, order *entity.SupplierOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplierOrder, error)
	// GetWithDetails loads the order with its supplier, lines and deliveries
	// (each delivery with its shipping agency).
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.SupplierOrder, error)
	Update(ctx context.Context, order *entity.SupplierOrder) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SupplierOrderStatus, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SupplierOrderFilterParams) ([]entity.SupplierOrder, int64, error)
	CountByStatus(ctx context.Context) (map[enum.SupplierOrderStatus]int64, error)
	// ListOpenWithDetails returns orders not yet received or cancelled
	ListOpenWithDetails(ctx context.Context) ([]entity.SupplierOrder, error)
}

// SupplierOrderFilterParams contains filtering parameters for supplier order queries
type SupplierOrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SupplierOrderStatus
	SupplierID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// SupplierOrderLineRepository defines the interface for order line data operations
type SupplierOrderLineRepository interface {
	Create(ctx context.Context, line *entity.SupplierOrderLine) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SupplierOrderLine, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.SupplierOrderLine, error)
	Update(ctx context.Context, line *entity.SupplierOrderLine) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
	// ClearDelivery unassigns every line pointing at the delivery
	ClearDelivery(ctx context.Context, deliveryID uuid.UUID) error
}

// DeliveryRepository defines the interface for delivery data operations
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Delivery, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Delivery, error)
	Update(ctx context.Context, delivery *entity.Delivery) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
	// ListByAgency returns the deliveries quoted with the agency's rates
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]entity.Delivery, error)
}
