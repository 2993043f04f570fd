package request

import "github.com/google/uuid"

// RecordPaymentRequest represents an office-recorded payment against an
// invoice. Monetary amounts travel as strings to avoid float rounding.
type RecordPaymentRequest struct {
	Method          string  `json:"method" binding:"required"`
	Amount          string  `json:"amount" binding:"required"`
	PaidAt          *string `json:"paid_at"`
	ReferenceNo     *string `json:"reference_no"`
	BankName        *string `json:"bank_name"`
	BankAccount     *string `json:"bank_account"`
	EWalletProvider *string `json:"ewallet_provider"`
	EWalletNumber   *string `json:"ewallet_number"`
	Note            *string `json:"note"`
}

// ReversePaymentRequest represents a payment reversal request
type ReversePaymentRequest struct {
	Reason *string `json:"reason"`
}

// RecordTripPaymentRequest represents a driver-captured field payment
type RecordTripPaymentRequest struct {
	DriverID         uuid.UUID `json:"driver_id" binding:"required"`
	Method           string    `json:"method" binding:"required"`
	Amount           string    `json:"amount" binding:"required"`
	ReferenceNo      *string   `json:"reference_no"`
	ReceiptRequested bool      `json:"receipt_requested"`
	CollectedAt      *string   `json:"collected_at"`
}

// PaymentFilterRequest represents payment event filter parameters
type PaymentFilterRequest struct {
	InvoiceNo string `form:"invoice_no"`
	Method    string `form:"method"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
