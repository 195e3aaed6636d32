package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/config"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/andy/invoicedesk/internal/session"
)

// InvoiceService wraps the backend API with the client-side operations the
// screens and CLI commands share: draft creation, submission, status
// changes, and the PDF export/print/share actions.
type InvoiceService interface {
	// NewDraft starts a draft seeded from the logged-in user's profile
	// and the configured company info
	NewDraft() *domain.Draft

	// List fetches all invoices from the backend
	List(ctx context.Context) ([]*domain.Invoice, error)

	// Get fetches a single invoice
	Get(ctx context.Context, id string) (*domain.Invoice, error)

	// Submit validates a draft and sends it whole to the backend
	Submit(ctx context.Context, draft *domain.Draft) (*domain.Invoice, error)

	// SetStatus asks the backend to transition an invoice's status
	SetStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error)

	// Delete removes an invoice
	Delete(ctx context.Context, id string) error

	// ExportPDF saves the rendered PDF into the output directory and
	// returns the written path
	ExportPDF(ctx context.Context, inv *domain.Invoice) (string, error)

	// PrintPDF sends the rendered PDF to the system print spooler
	PrintPDF(ctx context.Context, inv *domain.Invoice) error

	// SharePDF exports the PDF for handing off to another channel;
	// terminals have no share sheet, so this saves the file and reports
	// where it went
	SharePDF(ctx context.Context, inv *domain.Invoice) (string, error)

	// Stats computes dashboard numbers from the fetched list
	Stats(ctx context.Context) (*DashboardStats, error)
}

// DashboardStats summarizes the invoice list for the dashboard screen
type DashboardStats struct {
	TotalInvoices int
	TotalRevenue  float64
	PendingCount  int
}

type invoiceService struct {
	api     api.API
	session *session.Session
	cfg     *config.Config
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(a api.API, s *session.Session, cfg *config.Config) InvoiceService {
	return &invoiceService{api: a, session: s, cfg: cfg}
}

func (s *invoiceService) NewDraft() *domain.Draft {
	defaults := domain.PartyInfo{
		Name:    s.cfg.Company.Name,
		Address: s.cfg.Company.Address,
		City:    s.cfg.Company.City,
		Phone:   s.cfg.Company.Phone,
		Email:   s.cfg.Company.Email,
	}
	from := s.session.User().BillFrom(defaults)
	return domain.NewDraft(from, s.cfg.Invoice.DefaultTaxRate)
}

func (s *invoiceService) List(ctx context.Context) ([]*domain.Invoice, error) {
	return s.api.ListInvoices(ctx)
}

func (s *invoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.api.GetInvoice(ctx, id)
}

func (s *invoiceService) Submit(ctx context.Context, draft *domain.Draft) (*domain.Invoice, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return s.api.CreateInvoice(ctx, &draft.Invoice)
}

func (s *invoiceService) SetStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	return s.api.UpdateInvoiceStatus(ctx, id, status)
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	return s.api.DeleteInvoice(ctx, id)
}

func (s *invoiceService) ExportPDF(ctx context.Context, inv *domain.Invoice) (string, error) {
	data, err := s.api.FetchInvoicePDF(ctx, inv.ID)
	if err != nil {
		return "", err
	}

	dir := s.cfg.Invoice.OutputDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("invoice-%s.pdf", inv.InvoiceNumber))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}

	return path, nil
}

func (s *invoiceService) PrintPDF(ctx context.Context, inv *domain.Invoice) error {
	data, err := s.api.FetchInvoicePDF(ctx, inv.ID)
	if err != nil {
		return err
	}

	lp, err := exec.LookPath("lp")
	if err != nil {
		return fmt.Errorf("no print spooler found (lp not in PATH): %w", err)
	}

	cmd := exec.CommandContext(ctx, lp, "-t", fmt.Sprintf("invoice-%s", inv.InvoiceNumber))
	cmd.Stdin = bytes.NewReader(data)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("print failed: %v: %s", err, bytes.TrimSpace(out))
	}

	return nil
}

func (s *invoiceService) SharePDF(ctx context.Context, inv *domain.Invoice) (string, error) {
	return s.ExportPDF(ctx, inv)
}

func (s *invoiceService) Stats(ctx context.Context) (*DashboardStats, error) {
	invoices, err := s.api.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalInvoices: len(invoices)}
	for _, inv := range invoices {
		stats.TotalRevenue += inv.Total
		if inv.IsPending() {
			stats.PendingCount++
		}
	}
	return stats, nil
}
