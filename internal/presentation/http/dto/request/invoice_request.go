package request

import "github.com/google/uuid"

// BuildInvoiceRequest represents an invoice build or create request. Source is
// either "orders" with order_ids, or "customer" with customer_id and sub_total.
type BuildInvoiceRequest struct {
	Source           string      `json:"source" binding:"required,oneof=orders customer"`
	OrderIDs         []uuid.UUID `json:"order_ids"`
	CustomerID       *uuid.UUID  `json:"customer_id"`
	SubTotal         *string     `json:"sub_total"`
	TaxRate          string      `json:"tax_rate"`
	PaymentTermsDays int         `json:"payment_terms_days" binding:"omitempty,min=1,max=365"`
	Currency         string      `json:"currency" binding:"omitempty,len=3"`
	OriginalCurrency *string     `json:"original_currency" binding:"omitempty,len=3"`
	ExchangeRate     *string     `json:"exchange_rate"`
	IssueDate        *string     `json:"issue_date"`
	Note             *string     `json:"note"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
