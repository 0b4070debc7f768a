package utils

import (
	"strings"

	"github.com/google/uuid"
)

// SupplierOrderPrefix prefixes generated supplier order numbers
const SupplierOrderPrefix = "SO"

// GenerateReferenceNo returns prefix-XXXXXXXX with eight random hex digits
func GenerateReferenceNo(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateOrderNo returns a new supplier order number such as SO-1A2B3C4D
func GenerateOrderNo() string {
	return GenerateReferenceNo(SupplierOrderPrefix)
}
