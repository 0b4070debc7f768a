package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SupplierOrderStatus tracks a purchase order from draft to reception
type SupplierOrderStatus string

const (
	SupplierOrderDraft     SupplierOrderStatus = "draft"
	SupplierOrderOrdered   SupplierOrderStatus = "ordered"
	SupplierOrderShipped   SupplierOrderStatus = "shipped"
	SupplierOrderReceived  SupplierOrderStatus = "received"
	SupplierOrderCancelled SupplierOrderStatus = "cancelled"
)

var supplierOrderTransitions = map[SupplierOrderStatus][]SupplierOrderStatus{
	SupplierOrderDraft:   {SupplierOrderOrdered, SupplierOrderCancelled},
	SupplierOrderOrdered: {SupplierOrderShipped, SupplierOrderCancelled},
	SupplierOrderShipped: {SupplierOrderReceived, SupplierOrderCancelled},
}

func (s SupplierOrderStatus) IsValid() bool {
	switch s {
	case SupplierOrderDraft, SupplierOrderOrdered, SupplierOrderShipped, SupplierOrderReceived, SupplierOrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the order may move to next
func (s SupplierOrderStatus) CanTransitionTo(next SupplierOrderStatus) bool {
	for _, allowed := range supplierOrderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether the order can no longer change
func (s SupplierOrderStatus) IsFinal() bool {
	return s == SupplierOrderReceived || s == SupplierOrderCancelled
}

func (s SupplierOrderStatus) String() string {
	return string(s)
}

func (s SupplierOrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *SupplierOrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status := SupplierOrderStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid supplier order status %q", str)
	}
	*s = status
	return nil
}

func (s SupplierOrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *SupplierOrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SupplierOrderDraft
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = SupplierOrderStatus(v)
	case []byte:
		*s = SupplierOrderStatus(string(v))
	}
	return nil
}
