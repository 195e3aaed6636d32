package domain

import "testing"

func sampleInvoices() []*Invoice {
	return []*Invoice{
		{
			ID:            "1",
			InvoiceNumber: "INV-1001",
			From:          PartyInfo{Name: "Watson Consulting"},
			To: PartyInfo{
				Name:  "Acme Corp",
				Phone: "(555) 123-4567",
				Email: "billing@acme.example",
			},
			Items: []LineItem{
				{Description: "Design work", Quantity: 2, Price: 50, Total: 100},
			},
		},
		{
			ID:            "2",
			InvoiceNumber: "INV-1002",
			From:          PartyInfo{Name: "Watson Consulting"},
			To: PartyInfo{
				Name:  "Globex",
				Phone: "555-987-6543",
				Email: "ap@globex.example",
			},
			Items: []LineItem{
				{Description: "Server maintenance", Quantity: 1, Price: 300, Total: 300},
			},
		},
		{
			ID:            "3",
			InvoiceNumber: "INV-1003",
			From:          PartyInfo{Name: "Watson Consulting"},
			To:            PartyInfo{Name: "Initech"},
		},
	}
}

func TestFilterInvoices_EmptyQueryReturnsInput(t *testing.T) {
	invoices := sampleInvoices()

	for _, q := range []string{"", "   ", "\t"} {
		got := FilterInvoices(invoices, q)
		if len(got) != len(invoices) {
			t.Fatalf("query %q: got %d invoices, want %d", q, len(got), len(invoices))
		}
		for i := range got {
			if got[i] != invoices[i] {
				t.Errorf("query %q: result reordered or copied at index %d", q, i)
			}
		}
	}
}

func TestFilterInvoices_MatchesFields(t *testing.T) {
	invoices := sampleInvoices()

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"client name exact", "Acme Corp", []string{"1"}},
		{"client name case-insensitive", "acme", []string{"1"}},
		{"invoice number", "inv-1002", []string{"2"}},
		{"email", "ap@globex", []string{"2"}},
		{"item description", "maintenance", []string{"2"}},
		{"issuer name matches all", "watson", []string{"1", "2", "3"}},
		{"phone as formatted", "(555) 123", []string{"1"}},
		{"phone digits only", "5551234567", []string{"1"}},
		{"phone partial digits", "555-1234", []string{"1"}},
		{"no match", "zorblatt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterInvoices(invoices, tt.query)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("query %q: got %d results, want %d", tt.query, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("query %q: result[%d].ID = %q, want %q", tt.query, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterInvoices_NoMatchReturnsEmptyNonNil(t *testing.T) {
	got := FilterInvoices(sampleInvoices(), "nothing-matches-this")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestFilterInvoices_MissingFields(t *testing.T) {
	// Invoice 3 has no phone, email, or items; matching must not panic and
	// must simply skip the absent fields
	got := FilterInvoices(sampleInvoices(), "initech")
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected only the Initech invoice, got %d results", len(got))
	}
}

func TestFilterInvoices_DoesNotMutateInput(t *testing.T) {
	invoices := sampleInvoices()
	before := make([]string, len(invoices))
	for i, inv := range invoices {
		before[i] = inv.ID
	}

	_ = FilterInvoices(invoices, "globex")

	for i, inv := range invoices {
		if inv.ID != before[i] {
			t.Fatalf("input slice mutated at index %d", i)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"(555) 123-4567", "5551234567"},
		{"abc", ""},
		{"", ""},
		{"12 34", "1234"},
	}
	for _, tt := range tests {
		if got := digitsOnly(tt.in); got != tt.want {
			t.Errorf("digitsOnly(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
