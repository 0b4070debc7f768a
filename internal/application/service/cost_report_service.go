package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/internal/infrastructure/cache"
	"github.com/sangkips/landedcost-api/internal/infrastructure/export"
	"github.com/sangkips/landedcost-api/pkg/apperror"
	"github.com/sangkips/landedcost-api/pkg/logger"
	"golang.org/x/crypto/blake2b"
)

// CostReportService computes landed-cost reports for supplier orders
type CostReportService struct {
	orderRepo repository.SupplierOrderRepository
	engine    *costing.Engine
	cache     cache.ReportCache
	exporter  *export.CostReportXLSX
}

// NewCostReportService creates a new cost report service
func NewCostReportService(
	orderRepo repository.SupplierOrderRepository,
	engine *costing.Engine,
	reportCache cache.ReportCache,
	exporter *export.CostReportXLSX,
) *CostReportService {
	return &CostReportService{
		orderRepo: orderRepo,
		engine:    engine,
		cache:     reportCache,
		exporter:  exporter,
	}
}

// GetReport returns the cost report of an order
func (s *CostReportService) GetReport(ctx context.Context, orderID uuid.UUID) (*costing.Report, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Supplier order")
	}

	return s.Summarize(ctx, costingOrder(order))
}

// Summarize costs an order, reusing a cached report when the same inputs
// were costed before. Cache failures only cost a recomputation.
func (s *CostReportService) Summarize(ctx context.Context, order costing.Order) (*costing.Report, error) {
	key, err := s.memoKey(order)
	if err != nil {
		return nil, apperror.Internal("hash cost report input", err)
	}

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("cost report cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	report := s.engine.Summarize(order)
	if err := s.cache.Set(ctx, key, &report); err != nil {
		logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("cost report cache write failed")
	}
	return &report, nil
}

// memoKey digests everything the report depends on, including the local
// currency label the engine prints.
func (s *CostReportService) memoKey(order costing.Order) (string, error) {
	payload, err := json.Marshal(struct {
		LocalCurrency string        `json:"local_currency"`
		Order         costing.Order `json:"order"`
	}{s.engine.LocalCurrency(), order})
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// Export renders the order's cost report as an XLSX workbook
func (s *CostReportService) Export(ctx context.Context, orderID uuid.UUID) (string, []byte, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return "", nil, err
	}
	if order == nil {
		return "", nil, apperror.NewNotFoundError("Supplier order")
	}

	report, err := s.Summarize(ctx, costingOrder(order))
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, order.OrderNo, report); err != nil {
		return "", nil, apperror.Internal("export cost report", err)
	}
	return fmt.Sprintf("cost-report-%s.xlsx", order.OrderNo), buf.Bytes(), nil
}
