package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// TransportType represents the freight mode of a delivery
type TransportType string

const (
	TransportAir     TransportType = "air"
	TransportSea     TransportType = "sea"
	TransportExpress TransportType = "express"
)

// IsValid reports whether the transport type is one of the known modes
func (t TransportType) IsValid() bool {
	switch t {
	case TransportAir, TransportSea, TransportExpress:
		return true
	}
	return false
}

// ParseTransportType normalizes user input into a TransportType
func ParseTransportType(s string) (TransportType, bool) {
	t := TransportType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

func (t TransportType) String() string {
	return string(t)
}

func (t TransportType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TransportType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = TransportType(strings.ToLower(str))
	return nil
}

func (t TransportType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *TransportType) Scan(value interface{}) error {
	if value == nil {
		*t = TransportAir
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = TransportType(v)
	case []byte:
		*t = TransportType(string(v))
	}
	return nil
}
