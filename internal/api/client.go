package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andy/invoicedesk/internal/domain"
	"github.com/google/uuid"
)

// API is the backend contract the rest of the application depends on.
// The HTTP client implements it against the real backend; the demo client
// implements it in memory.
type API interface {
	// Ping probes backend reachability
	Ping(ctx context.Context) error

	// Login exchanges credentials for a user profile and bearer token
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Verify validates the stored token and returns the user it belongs to
	Verify(ctx context.Context, token string) (*domain.User, error)

	// SetToken attaches a bearer token to all subsequent requests
	SetToken(token string)

	// ClearToken removes the bearer token
	ClearToken()

	// ListInvoices fetches all invoices
	ListInvoices(ctx context.Context) ([]*domain.Invoice, error)

	// CreateInvoice submits a draft; the server assigns identity and number
	CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)

	// GetInvoice fetches a single invoice by ID
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)

	// UpdateInvoiceStatus changes an invoice's status
	UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error)

	// DeleteInvoice removes an invoice
	DeleteInvoice(ctx context.Context, id string) error

	// FetchInvoicePDF retrieves the rendered PDF payload
	FetchInvoicePDF(ctx context.Context, id string) ([]byte, error)
}

// Client is the HTTP implementation of API. The token is guarded by a
// mutex: UI commands issue requests from their own goroutines while a
// logout can clear the token from another.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// NewClient creates a client for the backend at baseURL. The timeout
// applies to every request and surfaces as ErrUnreachable when exceeded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// loginResponse is the /auth/login payload
type loginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// verifyResponse is the /auth/verify payload
type verifyResponse struct {
	User *domain.User `json:"user"`
}

// listResponse is the /billing/invoices payload
type listResponse struct {
	Success  bool              `json:"success"`
	Invoices []*domain.Invoice `json:"invoices"`
}

// invoiceResponse wraps a single invoice
type invoiceResponse struct {
	Invoice *domain.Invoice `json:"invoice"`
}

// errorResponse is the backend's error body
type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Ping(ctx context.Context) error {
	body, err := c.do(ctx, http.MethodGet, "/test", nil, nil)
	if err != nil {
		return err
	}
	body.Close()
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", payload, &resp, nil); err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *Client) Verify(ctx context.Context, token string) (*domain.User, error) {
	headers := map[string]string{"Authorization": "Bearer " + token}
	var resp verifyResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/verify", nil, &resp, headers); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	var resp listResponse
	if err := c.doJSON(ctx, http.MethodGet, "/billing/invoices", nil, &resp, nil); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RequestError{StatusCode: http.StatusOK, Message: "backend reported failure listing invoices"}
	}
	return resp.Invoices, nil
}

func (c *Client) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	// The idempotency key lets the backend dedupe a resubmitted create
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	var created domain.Invoice
	if err := c.doJSON(ctx, http.MethodPost, "/billing/invoices", inv, &created, headers); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	var resp invoiceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/billing/invoices/"+id, nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Invoice, nil
}

func (c *Client) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	payload := map[string]domain.InvoiceStatus{"status": status}
	var resp invoiceResponse
	if err := c.doJSON(ctx, http.MethodPut, "/billing/invoices/"+id, payload, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Invoice, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	body, err := c.do(ctx, http.MethodDelete, "/billing/invoices/"+id, nil, nil)
	if err != nil {
		return err
	}
	body.Close()
	return nil
}

func (c *Client) FetchInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, "/billing/invoices/"+id+"/pdf", nil, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF payload: %w", err)
	}
	return data, nil
}

// doJSON performs a request and decodes the JSON response into out
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any, headers map[string]string) error {
	body, err := c.do(ctx, method, path, payload, headers)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// do performs a request, attaching the bearer token and mapping failures
// to the error taxonomy. The caller owns the returned body.
func (c *Client) do(ctx context.Context, method, path string, payload any, headers map[string]string) (io.ReadCloser, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and refused connections both mean the backend is down
		// from the client's point of view
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.Body, nil
	}

	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	}

	var errResp errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	return nil, &RequestError{StatusCode: resp.StatusCode, Message: errResp.Error}
}
