package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// parseAmount parses a decimal amount sent as a JSON string
func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseOptionalAmount parses an optional decimal amount
func parseOptionalAmount(s *string) (*decimal.Decimal, bool) {
	if s == nil {
		return nil, true
	}
	d, ok := parseAmount(*s)
	if !ok {
		return nil, false
	}
	return &d, true
}

// parseOptionalDate parses an optional YYYY-MM-DD date, falling back to
// RFC 3339 for callers that send full timestamps
func parseOptionalDate(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	if t, err := time.Parse("2006-01-02", *s); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, true
	}
	return nil, false
}
