package service

import (
	"context"

	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DashboardService provides sourcing statistics
type DashboardService struct {
	orderRepo    repository.SupplierOrderRepository
	supplierRepo repository.SupplierRepository
	agencyRepo   repository.ShippingAgencyRepository
	engine       *costing.Engine
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	orderRepo repository.SupplierOrderRepository,
	supplierRepo repository.SupplierRepository,
	agencyRepo repository.ShippingAgencyRepository,
	engine *costing.Engine,
) *DashboardService {
	return &DashboardService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		agencyRepo:   agencyRepo,
		engine:       engine,
	}
}

// DashboardStats represents dashboard statistics. OrdersMissingRate counts
// open orders whose cost cannot be computed until an exchange rate is set.
type DashboardStats struct {
	TotalSuppliers       int64                              `json:"total_suppliers"`
	ActiveAgencies       int64                              `json:"active_agencies"`
	OrdersByStatus       map[enum.SupplierOrderStatus]int64 `json:"orders_by_status"`
	OpenOrders           int                                `json:"open_orders"`
	OpenOrdersCostLocal  decimal.Decimal                    `json:"open_orders_cost_local"`
	OpenShippingLocal    decimal.Decimal                    `json:"open_shipping_local"`
	OrdersMissingRate    int                                `json:"orders_missing_rate"`
	DeliveriesWithoutFee int                                `json:"deliveries_without_fee"`
	LocalCurrency        string                             `json:"local_currency"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		OpenOrdersCostLocal: decimal.Zero,
		OpenShippingLocal:   decimal.Zero,
		LocalCurrency:       s.engine.LocalCurrency(),
	}

	count, err := s.supplierRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalSuppliers = count

	params := pagination.DefaultPagination()
	params.PerPage = 1 // only the count is needed
	_, agencies, err := s.agencyRepo.List(ctx, params, "", true)
	if err != nil {
		return nil, err
	}
	stats.ActiveAgencies = agencies

	stats.OrdersByStatus, err = s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	open, err := s.orderRepo.ListOpenWithDetails(ctx)
	if err != nil {
		return nil, err
	}
	stats.OpenOrders = len(open)

	for i := range open {
		report := s.engine.Summarize(costingOrder(&open[i]))
		stats.OpenShippingLocal = stats.OpenShippingLocal.Add(report.Totals.TotalLineShippingLocal)
		if v, ok := report.Totals.TotalCostPriceLocal.Value(); ok {
			stats.OpenOrdersCostLocal = stats.OpenOrdersCostLocal.Add(v)
		} else {
			stats.OrdersMissingRate++
		}
		for _, d := range open[i].Deliveries {
			if !d.ShippingFeeLocal.Valid {
				stats.DeliveriesWithoutFee++
			}
		}
	}

	return stats, nil
}
