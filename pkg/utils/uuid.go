package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateInvoiceNo generates a unique invoice number
func GenerateInvoiceNo() string {
	return "INV-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateOrderNo generates a unique delivery order number
func GenerateOrderNo() string {
	return "DO-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateTripNo generates a unique trip number
func GenerateTripNo() string {
	return "TRIP-" + strings.ToUpper(uuid.New().String()[:8])
}
