package domain

import (
	"errors"
	"strings"
	"time"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// ParseInvoiceStatus validates a user-supplied status string
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case InvoiceStatusDraft:
		return InvoiceStatusDraft, nil
	case InvoiceStatusSent:
		return InvoiceStatusSent, nil
	case InvoiceStatusPaid:
		return InvoiceStatusPaid, nil
	case InvoiceStatusOverdue:
		return InvoiceStatusOverdue, nil
	}
	return "", errors.New("status must be one of: draft, sent, paid, overdue")
}

// PartyInfo identifies one side of an invoice (issuer or client).
// Only the name is required.
type PartyInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// LineItem is one billable row. Total is derived from Quantity and Price
// and must never drift from them; mutations go through the Draft methods,
// which recompute it on every change.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Invoice mirrors the backend wire format. For persisted invoices the
// server's stored numbers are displayed verbatim; the client only computes
// totals while a draft is being edited.
type Invoice struct {
	ID            string        `json:"_id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	From          PartyInfo     `json:"from"`
	To            PartyInfo     `json:"to"`
	Date          string        `json:"date"`    // YYYY-MM-DD
	DueDate       string        `json:"dueDate"` // YYYY-MM-DD, may be empty
	Items         []LineItem    `json:"items"`
	TaxRate       float64       `json:"taxRate"` // percent, 0-100
	Subtotal      float64       `json:"subtotal"`
	TaxAmount     float64       `json:"taxAmount"`
	Total         float64       `json:"total"`
	Notes         string        `json:"notes"`
	Status        InvoiceStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
}

// Totals holds the three derived invoice-level amounts. They are always
// replaced together so the invoice never reflects a partial recompute.
type Totals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// ComputeLineTotal returns quantity * unitPrice. Negative inputs are
// clamped to zero before multiplying.
func ComputeLineTotal(quantity int, unitPrice float64) float64 {
	if quantity < 0 {
		quantity = 0
	}
	if unitPrice < 0 {
		unitPrice = 0
	}
	return float64(quantity) * unitPrice
}

// ComputeTotals sums the already-derived line totals in sequence order and
// applies the tax rate as a percentage. Pure: same inputs, same output.
func ComputeTotals(items []LineItem, taxRatePercent float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total
	}
	taxAmount := subtotal * taxRatePercent / 100
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}

// Validate returns an error if the invoice is not submittable
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.From.Name) == "" {
		return errors.New("issuer name is required")
	}
	if strings.TrimSpace(i.To.Name) == "" {
		return errors.New("client name is required")
	}
	if i.Date == "" {
		return errors.New("invoice date is required")
	}
	if len(i.Items) == 0 {
		return errors.New("invoice must have at least one line item")
	}
	for _, item := range i.Items {
		if strings.TrimSpace(item.Description) == "" {
			return errors.New("every line item needs a description")
		}
		if item.Quantity < 0 {
			return errors.New("quantity cannot be negative")
		}
		if item.Price < 0 {
			return errors.New("price cannot be negative")
		}
	}
	if i.TaxRate < 0 || i.TaxRate > 100 {
		return errors.New("tax rate must be between 0 and 100")
	}
	return nil
}

// IsPending reports whether the invoice still awaits payment
func (i *Invoice) IsPending() bool {
	return i.Status != InvoiceStatusPaid
}
