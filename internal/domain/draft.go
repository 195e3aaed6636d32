package domain

import (
	"strconv"
	"strings"
	"time"
)

// Draft is a client-held invoice under construction. Every mutation runs
// through a method that recomputes the affected line total and then the
// invoice-level totals, so Subtotal/TaxAmount/Total always agree with the
// items and tax rate.
type Draft struct {
	Invoice
}

// NewDraft creates an empty draft: one blank line item, today's date, and
// the issuer party seeded from the caller (logged-in profile merged with
// the configured company info).
func NewDraft(from PartyInfo, taxRatePercent float64) *Draft {
	d := &Draft{
		Invoice: Invoice{
			From:    from,
			Date:    time.Now().Format("2006-01-02"),
			Items:   []LineItem{{Quantity: 1}},
			TaxRate: taxRatePercent,
			Status:  InvoiceStatusDraft,
		},
	}
	d.recompute()
	return d
}

// recompute refreshes all derived fields from the items and tax rate.
// Line totals are assumed current; callers that touch quantity or price
// refresh the line first.
func (d *Draft) recompute() {
	totals := ComputeTotals(d.Items, d.TaxRate)
	d.Subtotal = totals.Subtotal
	d.TaxAmount = totals.TaxAmount
	d.Total = totals.Total
}

// SetItemDescription updates a line item's description
func (d *Draft) SetItemDescription(index int, description string) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items[index].Description = description
}

// SetItemQuantity coerces the raw input to a non-negative integer, updates
// the line, and recomputes its total and the invoice totals.
func (d *Draft) SetItemQuantity(index int, raw string) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items[index].Quantity = ParseQuantity(raw)
	d.Items[index].Total = ComputeLineTotal(d.Items[index].Quantity, d.Items[index].Price)
	d.recompute()
}

// SetItemPrice coerces the raw input to a non-negative price, updates the
// line, and recomputes its total and the invoice totals.
func (d *Draft) SetItemPrice(index int, raw string) {
	if index < 0 || index >= len(d.Items) {
		return
	}
	d.Items[index].Price = ParsePrice(raw)
	d.Items[index].Total = ComputeLineTotal(d.Items[index].Quantity, d.Items[index].Price)
	d.recompute()
}

// SetTaxRate clamps the rate into [0,100] and recomputes totals
func (d *Draft) SetTaxRate(raw string) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	d.TaxRate = rate
	d.recompute()
}

// AddItem appends a blank line item (quantity 1)
func (d *Draft) AddItem() {
	d.Items = append(d.Items, LineItem{Quantity: 1})
	d.recompute()
}

// RemoveItem removes the item at index. Removing the last remaining item
// is a no-op: a draft always keeps at least one line.
func (d *Draft) RemoveItem(index int) {
	if len(d.Items) <= 1 || index < 0 || index >= len(d.Items) {
		return
	}
	d.Items = append(d.Items[:index], d.Items[index+1:]...)
	d.recompute()
}

// ParseQuantity coerces form input to a non-negative integer. Anything
// unparsable or negative becomes 0.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParsePrice coerces form input to a non-negative price. Anything
// unparsable or negative becomes 0.
func ParsePrice(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
