package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
	"github.com/sangkips/landedcost-api/internal/domain/enum"
	"gorm.io/gorm"
)

func newOrderWithDetails() *entity.SupplierOrder {
	order := &entity.SupplierOrder{ID: uuid.New(), OrderNo: "SO-12345678", Status: enum.SupplierOrderDraft, Currency: "USD"}
	delivery := entity.Delivery{ID: uuid.New(), TransportType: enum.TransportAir, Status: enum.DeliveryPending}
	order.Deliveries = []entity.Delivery{delivery}
	order.Lines = []entity.SupplierOrderLine{
		{ProductName: "Phone cases", Quantity: 10, DeliveryID: &delivery.ID},
		{ProductName: "Chargers", Quantity: 5, Position: 1},
	}
	return order
}

func TestSupplierOrderRepository_CreateWithDetails(t *testing.T) {
	t.Run("inserts in one transaction", func(t *testing.T) {
		db, pool, inserts := dryRunDB(t)
		order := newOrderWithDetails()

		if err := NewSupplierOrderRepository(db).CreateWithDetails(context.Background(), order); err != nil {
			t.Fatalf("CreateWithDetails() error = %v", err)
		}

		var tables []string
		for _, ins := range *inserts {
			tables = append(tables, ins.table)
			if !ins.inTx {
				t.Errorf("insert into %s ran outside the transaction", ins.table)
			}
		}
		if got := strings.Join(tables, ","); got != "supplier_orders,deliveries,supplier_order_lines" {
			t.Errorf("insert order = %s", got)
		}
		if pool.begun != 1 || pool.committed != 1 || pool.rolledBack != 0 {
			t.Errorf("begun/committed/rolled back = %d/%d/%d, want 1/1/0", pool.begun, pool.committed, pool.rolledBack)
		}
		for _, l := range order.Lines {
			if l.SupplierOrderID != order.ID {
				t.Errorf("line %q order = %s, want %s", l.ProductName, l.SupplierOrderID, order.ID)
			}
		}
	})

	t.Run("line insert failure rolls back", func(t *testing.T) {
		db, pool, inserts := dryRunDB(t)
		errInsert := errors.New("violates foreign key constraint")
		err := db.Callback().Create().Before("gorm:create").Register("test:fail_lines", func(tx *gorm.DB) {
			if tx.Statement.Table == "supplier_order_lines" {
				tx.AddError(errInsert)
			}
		})
		if err != nil {
			t.Fatal(err)
		}

		err = NewSupplierOrderRepository(db).CreateWithDetails(context.Background(), newOrderWithDetails())
		if !errors.Is(err, errInsert) {
			t.Fatalf("CreateWithDetails() error = %v, want %v", err, errInsert)
		}
		if pool.committed != 0 || pool.rolledBack != 1 {
			t.Errorf("committed/rolled back = %d/%d, want 0/1", pool.committed, pool.rolledBack)
		}
		if len(*inserts) != 2 {
			t.Errorf("recorded %d inserts before the failure, want 2", len(*inserts))
		}
	})
}
