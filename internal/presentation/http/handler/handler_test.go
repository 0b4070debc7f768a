package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/application/service"
	"github.com/sangkips/landedcost-api/internal/domain/costing"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"github.com/sangkips/landedcost-api/internal/domain/repository"
	"github.com/sangkips/landedcost-api/internal/infrastructure/cache"
	"github.com/sangkips/landedcost-api/internal/infrastructure/export"
	"github.com/sangkips/landedcost-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// agencyRepo serves agencies from a map; other methods are not used here.
type agencyRepo struct {
	repository.ShippingAgencyRepository
	agencies map[uuid.UUID]*entity.ShippingAgency
}

func (r *agencyRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ShippingAgency, error) {
	return r.agencies[id], nil
}

type orderRepo struct {
	repository.SupplierOrderRepository
	orders map[uuid.UUID]*entity.SupplierOrder
}

func (r *orderRepo) GetWithDetails(_ context.Context, id uuid.UUID) (*entity.SupplierOrder, error) {
	return r.orders[id], nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response: %v\n%s", err, w.Body.String())
		}
	}
	return w, env
}

func TestShippingHandler_Estimate(t *testing.T) {
	agencyID := uuid.New()
	repo := &agencyRepo{agencies: map[uuid.UUID]*entity.ShippingAgency{
		agencyID: {
			ID:             agencyID,
			Name:           "Abidjan Freight",
			AirPricePerKg:  decimal.NewFromInt(5000),
			SeaPricePerCbm: decimal.NewFromInt(200000),
		},
	}}
	h := NewShippingHandler(service.NewShippingService(costing.NewEngine("F CFA"), repo))

	router := gin.New()
	router.POST("/shipping/estimate", h.Estimate)

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantFee    string
		wantStatus costing.EstimateStatus
	}{
		{
			name:       "stored agency air",
			body:       `{"shipping_agency_id":"` + agencyID.String() + `","transport_type":"air","weight_kg":10}`,
			wantCode:   http.StatusOK,
			wantFee:    `"50000"`,
			wantStatus: costing.EstimateComputed,
		},
		{
			name:       "inline rates sea by volume",
			body:       `{"rates":{"air_price_per_kg":"0","sea_price_per_cbm":"200000"},"transport_type":"sea","volume_cbm":"0.5"}`,
			wantCode:   http.StatusOK,
			wantFee:    `"100000"`,
			wantStatus: costing.EstimateComputed,
		},
		{
			name:       "no agency renders an empty fee",
			body:       `{"transport_type":"air","weight_kg":10}`,
			wantCode:   http.StatusOK,
			wantFee:    `null`,
			wantStatus: costing.EstimateAgencyMissing,
		},
		{
			name:       "missing weight",
			body:       `{"shipping_agency_id":"` + agencyID.String() + `","transport_type":"AIR"}`,
			wantCode:   http.StatusOK,
			wantFee:    `null`,
			wantStatus: costing.EstimateMeasurementMissing,
		},
		{
			name:     "unknown agency",
			body:     `{"shipping_agency_id":"` + uuid.NewString() + `","transport_type":"air","weight_kg":10}`,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "malformed body",
			body:     `{"weight_kg":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, router, http.MethodPost, "/shipping/estimate", tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				if env.Success {
					t.Error("expected success = false")
				}
				return
			}

			var data struct {
				Fee    json.RawMessage        `json:"fee"`
				Status costing.EstimateStatus `json:"status"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if string(data.Fee) != tt.wantFee {
				t.Errorf("fee = %s, want %s", data.Fee, tt.wantFee)
			}
			if data.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", data.Status, tt.wantStatus)
			}
		})
	}
}

func newReportRouter(orders map[uuid.UUID]*entity.SupplierOrder) *gin.Engine {
	engine := costing.NewEngine("F CFA")
	svc := service.NewCostReportService(
		&orderRepo{orders: orders},
		engine,
		cache.NewNopReportCache(),
		export.NewCostReportXLSX(money.NewFormatter("en", "F CFA")),
	)
	h := NewCostReportHandler(svc)

	router := gin.New()
	router.GET("/supplier-orders/:id/cost-report", h.Get)
	router.GET("/supplier-orders/:id/cost-report/export", h.Export)
	return router
}

func reportOrder(rate decimal.NullDecimal) *entity.SupplierOrder {
	orderID := uuid.New()
	return &entity.SupplierOrder{
		ID:                 orderID,
		OrderNo:            "SO-TEST0001",
		Status:             enum.SupplierOrderDraft,
		Currency:           "USD",
		ExchangeRate:       rate,
		BankFeesSource:     decimal.NewFromInt(10),
		ShippingFeesSource: decimal.NewFromInt(20),
		Deliveries: []entity.Delivery{{
			ID:              uuid.New(),
			SupplierOrderID: orderID,
			TransportType:   enum.TransportAir,
			WeightKg:        decimal.NewNullDecimal(decimal.NewFromInt(10)),
			ShippingAgency: &entity.ShippingAgency{
				AirPricePerKg:  decimal.NewFromInt(5000),
				SeaPricePerCbm: decimal.NewFromInt(200000),
			},
		}},
		Lines: []entity.SupplierOrderLine{{
			ID:              uuid.New(),
			SupplierOrderID: orderID,
			ProductName:     "Phone cases",
			Quantity:        10,
			UnitPriceSource: decimal.NewNullDecimal(decimal.NewFromInt(2)),
			UnitWeightKg:    decimal.NewNullDecimal(decimal.RequireFromString("0.5")),
		}},
	}
}

func TestCostReportHandler_Get(t *testing.T) {
	withRate := reportOrder(decimal.NewNullDecimal(decimal.NewFromInt(600)))
	withoutRate := reportOrder(decimal.NullDecimal{})
	router := newReportRouter(map[uuid.UUID]*entity.SupplierOrder{
		withRate.ID:    withRate,
		withoutRate.ID: withoutRate,
	})

	type lineJSON struct {
		UnitCostPrice json.RawMessage `json:"unit_cost_price"`
		LineCostTotal json.RawMessage `json:"line_cost_total"`
	}
	type reportJSON struct {
		RateDefined bool       `json:"rate_defined"`
		Lines       []lineJSON `json:"lines"`
		Totals      struct {
			TotalCostPriceLocal    json.RawMessage `json:"total_cost_price_local"`
			TotalDeliveryFeesLocal json.RawMessage `json:"total_delivery_fees_local"`
		} `json:"totals"`
	}

	t.Run("rate set", func(t *testing.T) {
		w, env := doJSON(t, router, http.MethodGet, "/supplier-orders/"+withRate.ID.String()+"/cost-report", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var rep reportJSON
		if err := json.Unmarshal(env.Data, &rep); err != nil {
			t.Fatalf("decode report: %v", err)
		}
		if !rep.RateDefined || len(rep.Lines) != 1 {
			t.Fatalf("unexpected report: %s", env.Data)
		}
		if got := string(rep.Lines[0].UnitCostPrice); got != `"5500"` {
			t.Errorf("unit_cost_price = %s, want \"5500\"", got)
		}
		if got := string(rep.Totals.TotalCostPriceLocal); got != `"55000"` {
			t.Errorf("total_cost_price_local = %s, want \"55000\"", got)
		}
	})

	t.Run("rate not set renders null, never zero", func(t *testing.T) {
		w, env := doJSON(t, router, http.MethodGet, "/supplier-orders/"+withoutRate.ID.String()+"/cost-report", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", w.Code, w.Body.String())
		}
		var rep reportJSON
		if err := json.Unmarshal(env.Data, &rep); err != nil {
			t.Fatalf("decode report: %v", err)
		}
		if rep.RateDefined {
			t.Error("rate_defined = true, want false")
		}
		if got := string(rep.Lines[0].UnitCostPrice); got != "null" {
			t.Errorf("unit_cost_price = %s, want null", got)
		}
		if got := string(rep.Lines[0].LineCostTotal); got != "null" {
			t.Errorf("line_cost_total = %s, want null", got)
		}
		if got := string(rep.Totals.TotalCostPriceLocal); got != "null" {
			t.Errorf("total_cost_price_local = %s, want null", got)
		}
		if got := string(rep.Totals.TotalDeliveryFeesLocal); got == "null" {
			t.Error("delivery fees do not depend on the exchange rate")
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodGet, "/supplier-orders/"+uuid.NewString()+"/cost-report", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodGet, "/supplier-orders/not-a-uuid/cost-report", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestCostReportHandler_Export(t *testing.T) {
	order := reportOrder(decimal.NewNullDecimal(decimal.NewFromInt(600)))
	router := newReportRouter(map[uuid.UUID]*entity.SupplierOrder{order.ID: order})

	req := httptest.NewRequest(http.MethodGet, "/supplier-orders/"+order.ID.String()+"/cost-report/export", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "cost-report-SO-TEST0001.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(export.SheetLines, "A2"); got != "Phone cases" {
		t.Errorf("A2 = %q, want Phone cases", got)
	}
}
