package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/andy/invoicedesk/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 2*time.Second), srv
}

func TestClient_Login(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("failed to decode credentials: %v", err)
		}
		if creds["email"] != "me@example.com" || creds["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", creds)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]string{"_id": "u1", "email": "me@example.com"},
			"token": "tok-123",
		})
	})
	defer srv.Close()

	user, token, err := c.Login(context.Background(), "me@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q, want tok-123", token)
	}
	if user == nil || user.Email != "me@example.com" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestClient_Login_BadCredentials(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer srv.Close()

	_, _, err := c.Login(context.Background(), "me@example.com", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_BearerTokenAttached(t *testing.T) {
	var gotAuth string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "invoices": []any{}})
	})
	defer srv.Close()

	c.SetToken("tok-456")
	if _, err := c.ListInvoices(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-456" {
		t.Errorf("Authorization = %q, want Bearer tok-456", gotAuth)
	}

	c.ClearToken()
	if _, err := c.ListInvoices(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization after ClearToken = %q, want empty", gotAuth)
	}
}

func TestClient_TokenSafeUnderConcurrentRequests(t *testing.T) {
	// A logout can clear the token while list or PDF requests are still
	// in flight on other goroutines; run under -race
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "invoices": []any{}})
	})
	defer srv.Close()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.SetToken("tok")
				c.ClearToken()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := c.ListInvoices(context.Background()); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestClient_ListInvoices(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/billing/invoices" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"invoices": []map[string]any{
				{"_id": "1", "invoiceNumber": "INV-1001", "total": 110.0},
			},
		})
	})
	defer srv.Close()

	invoices, err := c.ListInvoices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(invoices) != 1 || invoices[0].InvoiceNumber != "INV-1001" {
		t.Fatalf("unexpected invoices: %+v", invoices)
	}
}

func TestClient_CreateInvoice_SetsIdempotencyKey(t *testing.T) {
	var keys []string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		var inv domain.Invoice
		json.NewDecoder(r.Body).Decode(&inv)
		inv.ID = "new-id"
		inv.InvoiceNumber = "INV-1004"
		json.NewEncoder(w).Encode(&inv)
	})
	defer srv.Close()

	draft := &domain.Invoice{
		From:  domain.PartyInfo{Name: "My Co"},
		To:    domain.PartyInfo{Name: "Client"},
		Date:  "2026-08-31",
		Items: []domain.LineItem{{Description: "Work", Quantity: 1, Price: 10, Total: 10}},
	}

	created, err := c.CreateInvoice(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "new-id" || created.InvoiceNumber != "INV-1004" {
		t.Errorf("unexpected created invoice: %+v", created)
	}

	if _, err := c.CreateInvoice(context.Background(), draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(keys))
	}
	if keys[0] == "" || keys[1] == "" {
		t.Error("expected an idempotency key on every create")
	}
	if keys[0] == keys[1] {
		t.Error("expected a fresh idempotency key per request")
	}
}

func TestClient_GetInvoice_NotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	_, err := c.GetInvoice(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_UpdateInvoiceStatus(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/billing/invoices/42" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["status"] != "sent" {
			t.Errorf("status payload = %q, want sent", payload["status"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"invoice": map[string]any{"_id": "42", "status": "sent"},
		})
	})
	defer srv.Close()

	inv, err := c.UpdateInvoiceStatus(context.Background(), "42", domain.InvoiceStatusSent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != domain.InvoiceStatusSent {
		t.Errorf("status = %q, want sent", inv.Status)
	}
}

func TestClient_ErrorBodyParsed(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invoice date is required"})
	})
	defer srv.Close()

	_, err := c.ListInvoices(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", reqErr.StatusCode)
	}
	if reqErr.Message != "invoice date is required" {
		t.Errorf("message = %q", reqErr.Message)
	}
}

func TestClient_UnreachableBackend(t *testing.T) {
	// Point at a server that has already shut down
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, 500*time.Millisecond)
	if err := c.Ping(context.Background()); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestClient_FetchInvoicePDF(t *testing.T) {
	payload := []byte("%PDF-1.4 fake")
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/billing/invoices/7/pdf" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	})
	defer srv.Close()

	data, err := c.FetchInvoicePDF(context.Background(), "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("payload mismatch: %q", data)
	}
}
