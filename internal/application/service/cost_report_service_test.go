package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/infrastructure/export"
	"github.com/sangkips/landedcost-api/pkg/money"
	"github.com/xuri/excelize/v2"
)

func newReportService(st *store, c *memoryCache) *CostReportService {
	return NewCostReportService(
		fakeOrderRepo{st},
		costing.NewEngine("F CFA"),
		c,
		export.NewCostReportXLSX(money.NewFormatter("en", "F CFA")),
	)
}

func TestCostReport_MemoizesByInput(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	c := newMemoryCache()
	svc := newReportService(f.store, c)
	ctx := context.Background()

	first, err := svc.GetReport(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if v, ok := first.Totals.TotalCostPriceLocal.Value(); !ok || !v.Equal(dec("55000")) {
		t.Errorf("total cost = %s, want 55000", first.Totals.TotalCostPriceLocal)
	}

	second, err := svc.GetReport(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if c.hits != 1 || second != first {
		t.Errorf("second report should come from cache (hits = %d)", c.hits)
	}

	// any edit changes the key
	_, err = f.orders.UpdateLine(ctx, order.ID, order.Lines[0].ID, &OrderLineInput{
		ProductName: "Phone cases", Quantity: 20, UnitPriceSource: some("2"), UnitWeightKg: some("0.5"),
		DeliveryID: &order.Deliveries[0].ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	third, err := svc.GetReport(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if c.hits != 1 || len(c.reports) != 2 {
		t.Errorf("edited order should miss the cache (hits = %d, entries = %d)", c.hits, len(c.reports))
	}
	if third.Totals.TotalItems != 20 {
		t.Errorf("total items = %d, want 20", third.Totals.TotalItems)
	}
}

func TestCostReport_MemoKeyIncludesLocalCurrency(t *testing.T) {
	order := costing.Order{ID: uuid.New(), Currency: "USD"}
	a := &CostReportService{engine: costing.NewEngine("F CFA")}
	b := &CostReportService{engine: costing.NewEngine("XOF")}

	ka, err := a.memoKey(order)
	if err != nil {
		t.Fatal(err)
	}
	kb, _ := b.memoKey(order)
	again, _ := a.memoKey(order)

	if ka == kb {
		t.Error("keys should differ across local currencies")
	}
	if ka != again {
		t.Error("key should be stable for the same input")
	}
	if len(ka) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(ka))
	}
}

func TestCostReport_NotFound(t *testing.T) {
	svc := newReportService(newStore(), newMemoryCache())

	_, err := svc.GetReport(context.Background(), uuid.New())
	assertStatus(t, err, http.StatusNotFound)
}

func TestCostReport_Export(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)
	svc := newReportService(f.store, newMemoryCache())

	name, data, err := svc.Export(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.HasPrefix(name, "cost-report-SO-") || !strings.HasSuffix(name, ".xlsx") {
		t.Errorf("file name = %q", name)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer wb.Close()

	if got, _ := wb.GetCellValue(export.SheetSummary, "B14"); got != "55,000.00 F CFA" {
		t.Errorf("total cost cell = %q, want 55,000.00 F CFA", got)
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createOrder(t)
	received := f.createOrder(t)
	for _, next := range []enum.SupplierOrderStatus{enum.SupplierOrderOrdered, enum.SupplierOrderShipped, enum.SupplierOrderReceived} {
		if _, err := f.orders.ChangeStatus(ctx, received.ID, next); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.orders.CreateOrder(ctx, &CreateSupplierOrderInput{
		OrderHeaderInput: OrderHeaderInput{Currency: "CNY"},
		Deliveries:       []DeliveryInput{{TransportType: enum.TransportSea}},
		Lines:            []OrderLineInput{{ProductName: "Bags", Quantity: 3}},
	}); err != nil {
		t.Fatal(err)
	}

	svc := NewDashboardService(fakeOrderRepo{f.store}, fakeSupplierRepo{f.store}, fakeAgencyRepo{f.store}, costing.NewEngine("F CFA"))
	stats, err := svc.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats() error = %v", err)
	}

	if stats.OpenOrders != 2 {
		t.Errorf("open orders = %d, want 2", stats.OpenOrders)
	}
	if stats.OrdersByStatus[enum.SupplierOrderReceived] != 1 || stats.OrdersByStatus[enum.SupplierOrderDraft] != 2 {
		t.Errorf("orders by status = %v", stats.OrdersByStatus)
	}
	if !stats.OpenOrdersCostLocal.Equal(dec("55000")) {
		t.Errorf("open cost = %s, want 55000", stats.OpenOrdersCostLocal)
	}
	if stats.OrdersMissingRate != 1 || stats.DeliveriesWithoutFee != 1 {
		t.Errorf("missing rate = %d, deliveries without fee = %d", stats.OrdersMissingRate, stats.DeliveriesWithoutFee)
	}
	if stats.ActiveAgencies != 1 {
		t.Errorf("active agencies = %d, want 1", stats.ActiveAgencies)
	}
}
