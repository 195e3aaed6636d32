package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andy/invoicedesk/internal/domain"
	"github.com/google/uuid"
)

const demoToken = "demo-session"

// DemoClient is an in-memory API implementation used when demo mode is
// enabled in the config. It lets the UI run without a backend; the invoice
// list surfaces the demo flag as a banner.
type DemoClient struct {
	mu       sync.Mutex
	invoices []*domain.Invoice
	nextNum  int
	token    string
}

// NewDemoClient seeds the demo dataset
func NewDemoClient() *DemoClient {
	return &DemoClient{
		invoices: seedInvoices(),
		nextNum:  1003,
	}
}

func (d *DemoClient) Ping(ctx context.Context) error { return nil }

func (d *DemoClient) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrUnauthorized
	}
	return demoUser(email), demoToken, nil
}

func (d *DemoClient) Verify(ctx context.Context, token string) (*domain.User, error) {
	if token != demoToken {
		return nil, ErrUnauthorized
	}
	return demoUser("demo@example.com"), nil
}

func (d *DemoClient) SetToken(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token = token
}

func (d *DemoClient) ClearToken() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token = ""
}

func (d *DemoClient) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*domain.Invoice, len(d.invoices))
	copy(out, d.invoices)
	return out, nil
}

func (d *DemoClient) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	created := *inv
	created.ID = uuid.NewString()
	created.InvoiceNumber = fmt.Sprintf("INV-%d", d.nextNum)
	created.CreatedAt = time.Now()
	d.nextNum++
	d.invoices = append(d.invoices, &created)
	return &created, nil
}

func (d *DemoClient) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, inv := range d.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, ErrNotFound
}

func (d *DemoClient) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, inv := range d.invoices {
		if inv.ID == id {
			inv.Status = status
			return inv, nil
		}
	}
	return nil, ErrNotFound
}

func (d *DemoClient) DeleteInvoice(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, inv := range d.invoices {
		if inv.ID == id {
			d.invoices = append(d.invoices[:i], d.invoices[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (d *DemoClient) FetchInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	inv, err := d.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	// Minimal single-page placeholder so export and print still work
	pdf := fmt.Sprintf("%%PDF-1.4\n%% demo rendering of invoice %s\n%%%%EOF\n", inv.InvoiceNumber)
	return []byte(pdf), nil
}

func demoUser(email string) *domain.User {
	return &domain.User{
		ID:          "demo-user",
		Email:       email,
		Role:        "admin",
		CompanyName: "Demo Company LLC",
		Address:     "123 Business Street",
		City:        "Springfield, ST 12345",
		Phone:       "+1 (555) 123-4567",
	}
}

func seedInvoices() []*domain.Invoice {
	return []*domain.Invoice{
		{
			ID:            uuid.NewString(),
			InvoiceNumber: "INV-1001",
			From:          domain.PartyInfo{Name: "Demo Company LLC", Email: "billing@demo.example"},
			To: domain.PartyInfo{
				Name:  "Acme Corp",
				Phone: "(555) 123-4567",
				Email: "accounts@acme.example",
			},
			Date: time.Now().AddDate(0, 0, -14).Format("2006-01-02"),
			Items: []domain.LineItem{
				{Description: "Consulting services", Quantity: 10, Price: 150, Total: 1500},
				{Description: "Travel expenses", Quantity: 1, Price: 320.50, Total: 320.50},
			},
			TaxRate:   10,
			Subtotal:  1820.50,
			TaxAmount: 182.05,
			Total:     2002.55,
			Status:    domain.InvoiceStatusSent,
			CreatedAt: time.Now().AddDate(0, 0, -14),
		},
		{
			ID:            uuid.NewString(),
			InvoiceNumber: "INV-1002",
			From:          domain.PartyInfo{Name: "Demo Company LLC", Email: "billing@demo.example"},
			To: domain.PartyInfo{
				Name:  "Globex Industries",
				Phone: "(555) 987-6543",
				Email: "ap@globex.example",
			},
			Date: time.Now().AddDate(0, 0, -3).Format("2006-01-02"),
			Items: []domain.LineItem{
				{Description: "Website redesign", Quantity: 1, Price: 4800, Total: 4800},
			},
			TaxRate:   0,
			Subtotal:  4800,
			TaxAmount: 0,
			Total:     4800,
			Status:    domain.InvoiceStatusDraft,
			CreatedAt: time.Now().AddDate(0, 0, -3),
		},
	}
}
