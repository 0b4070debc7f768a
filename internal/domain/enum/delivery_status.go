package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryArrived   DeliveryStatus = "arrived"
)

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliveryInTransit, DeliveryArrived:
		return true
	}
	return false
}

// rank orders statuses so a delivery only moves forward
func (s DeliveryStatus) rank() int {
	switch s {
	case DeliveryInTransit:
		return 1
	case DeliveryArrived:
		return 2
	}
	return 0
}

// CanTransitionTo reports whether next is the same or a later status
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	return next.IsValid() && next.rank() >= s.rank()
}

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *DeliveryStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status := DeliveryStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid delivery status %q", str)
	}
	*s = status
	return nil
}

func (s DeliveryStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *DeliveryStatus) Scan(value interface{}) error {
	if value == nil {
		*s = DeliveryPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = DeliveryStatus(v)
	case []byte:
		*s = DeliveryStatus(string(v))
	}
	return nil
}
