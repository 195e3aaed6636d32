package domain

import "strings"

// FilterInvoices returns the invoices matching the query as an ordered
// subsequence of the input. The match is a case-insensitive substring test
// against the client name, phone, email, invoice number, issuing company
// name, and the joined item descriptions. Phones are additionally compared
// digits-only, so "(555) 123-4567" matches a query of "5551234567".
// An empty or whitespace-only query returns the input unchanged.
func FilterInvoices(invoices []*Invoice, query string) []*Invoice {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return invoices
	}
	qDigits := digitsOnly(q)

	var matches []*Invoice
	for _, inv := range invoices {
		if invoiceMatches(inv, q, qDigits) {
			matches = append(matches, inv)
		}
	}
	if matches == nil {
		matches = []*Invoice{}
	}
	return matches
}

func invoiceMatches(inv *Invoice, q, qDigits string) bool {
	phone := strings.ToLower(inv.To.Phone)
	if strings.Contains(strings.ToLower(inv.To.Name), q) ||
		strings.Contains(phone, q) ||
		strings.Contains(strings.ToLower(inv.To.Email), q) ||
		strings.Contains(strings.ToLower(inv.InvoiceNumber), q) ||
		strings.Contains(strings.ToLower(inv.From.Name), q) {
		return true
	}
	if qDigits != "" && strings.Contains(digitsOnly(phone), qDigits) {
		return true
	}
	var descs []string
	for _, item := range inv.Items {
		descs = append(descs, strings.ToLower(item.Description))
	}
	return strings.Contains(strings.Join(descs, " "), q)
}

// digitsOnly strips every non-digit character
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
