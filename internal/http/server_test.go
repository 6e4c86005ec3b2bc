package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"updash/internal/accounts"
	"updash/internal/amqp"
	"updash/internal/core"
	"updash/internal/services"
	"updash/internal/upbank"
)

type fakeLister struct {
	mu    sync.Mutex
	calls int
	byID  map[string][]upbank.RawTransaction
	err   error

	lastStart, lastEnd string
}

func (f *fakeLister) ListTransactions(ctx context.Context, accountID, startDate, endDate string) ([]upbank.RawTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastStart, f.lastEnd = startDate, endDate
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[accountID], nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*amqp.TransactionExportMessage
	err      error
}

func (f *fakePublisher) PublishTransactionExport(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func rawTx(id, description string) upbank.RawTransaction {
	return upbank.RawTransaction{
		ID: id,
		Attributes: &upbank.RawAttributes{
			Description: description,
			Amount:      upbank.RawAmount{CurrencyCode: "AUD", Value: "-4.50", ValueInBaseUnits: -450},
			SettledAt:   "2025-01-02T10:00:00Z",
			Account:     "acc-bills",
		},
	}
}

func newTestServer(t *testing.T, lister upbank.TransactionLister, publisher ExportPublisher) *Server {
	t.Helper()
	registry := accounts.NewRegistry(map[string]string{
		"bills": "acc-bills",
		"rent":  "acc-rent",
	})
	svc := services.NewSearchService(registry, lister)
	s := NewServer(":0", svc, publisher, 16, time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func doSearch(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	lister := &fakeLister{byID: map[string][]upbank.RawTransaction{
		"acc-bills": {rawTx("tx-1", "Coffee Shop")},
	}}
	s := newTestServer(t, lister, nil)

	rec := doSearch(t, s, `{"startDate":"2025-01-01","endDate":"2025-01-31","account":"bills"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "tx-1" {
		t.Fatalf("data = %+v", resp.Data)
	}
	if resp.Data[0].CategoryID != core.UnknownCategory {
		t.Fatalf("categoryId = %q", resp.Data[0].CategoryID)
	}
}

func TestSearchRequiresMandatoryFields(t *testing.T) {
	s := newTestServer(t, &fakeLister{}, nil)

	bodies := []string{
		`{"endDate":"2025-01-31","account":"bills"}`,
		`{"startDate":"2025-01-01","account":"bills"}`,
		`{"startDate":"2025-01-01","endDate":"2025-01-31"}`,
		`not json`,
	}
	for _, body := range bodies {
		rec := doSearch(t, s, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error == "" {
			t.Fatalf("body %q: error payload = %s", body, rec.Body.String())
		}
	}
}

func TestSearchUnknownAccount(t *testing.T) {
	s := newTestServer(t, &fakeLister{}, nil)

	rec := doSearch(t, s, `{"startDate":"2025-01-01","endDate":"2025-01-31","account":"holiday"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchInvalidDate(t *testing.T) {
	s := newTestServer(t, &fakeLister{}, nil)

	rec := doSearch(t, s, `{"startDate":"01/01/2025","endDate":"2025-01-31","account":"bills"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchUpstreamFailureMapsToBadGateway(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"api error", &upbank.APIError{StatusCode: http.StatusUnauthorized, Body: "Not Authorized"}},
		{"malformed response", upbank.ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &fakeLister{err: tc.err}, nil)
			rec := doSearch(t, s, `{"startDate":"2025-01-01","endDate":"2025-01-31","account":"bills"}`)
			if rec.Code != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", rec.Code)
			}
		})
	}
}

func TestSearchMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeLister{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestSearchCachesIdenticalRequests(t *testing.T) {
	lister := &fakeLister{byID: map[string][]upbank.RawTransaction{
		"acc-bills": {rawTx("tx-1", "Coffee Shop")},
	}}
	s := newTestServer(t, lister, nil)

	body := `{"startDate":"2025-01-01","endDate":"2025-01-31","account":"bills"}`
	for i := 0; i < 3; i++ {
		if rec := doSearch(t, s, body); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if got := lister.callCount(); got != 1 {
		t.Fatalf("upstream calls = %d, want 1 (cached)", got)
	}

	// A different filter misses the cache.
	other := `{"startDate":"2025-01-01","endDate":"2025-01-31","account":"bills","description":"coffee"}`
	if rec := doSearch(t, s, other); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := lister.callCount(); got != 2 {
		t.Fatalf("upstream calls = %d, want 2", got)
	}
}

func TestSearchPublishesExports(t *testing.T) {
	lister := &fakeLister{byID: map[string][]upbank.RawTransaction{
		"acc-bills": {rawTx("tx-1", "Coffee Shop"), rawTx("tx-2", "Hardware Store")},
	}}
	publisher := &fakePublisher{}
	s := newTestServer(t, lister, publisher)

	rec := doSearch(t, s, `{"startDate":"2025-01-01","endDate":"2025-01-31","account":"bills","export":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Exported != 2 {
		t.Fatalf("exported = %d, want 2", resp.Exported)
	}
	if len(publisher.messages) != 2 || publisher.messages[0].Transaction.ID != "tx-1" {
		t.Fatalf("messages = %+v", publisher.messages)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	deposit := rawTx("tx-2", "Salary")
	deposit.Attributes.Amount = upbank.RawAmount{CurrencyCode: "AUD", Value: "20.00", ValueInBaseUnits: 2000}
	lister := &fakeLister{byID: map[string][]upbank.RawTransaction{
		"acc-bills": {rawTx("tx-1", "Coffee Shop"), deposit},
	}}
	s := newTestServer(t, lister, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/summary?account=bills", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var sum core.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sum.Totals.WithdrawalsCents != -450 || sum.Totals.DepositsCents != 2000 {
		t.Fatalf("totals = %+v", sum.Totals)
	}

	// Default window: 8 trailing calendar days ending today.
	start, err := time.Parse(core.DateLayout, lister.lastStart)
	if err != nil {
		t.Fatalf("startDate %q: %v", lister.lastStart, err)
	}
	end, err := time.Parse(core.DateLayout, lister.lastEnd)
	if err != nil {
		t.Fatalf("endDate %q: %v", lister.lastEnd, err)
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days != defaultSummaryWindowDays {
		t.Fatalf("window = %d days, want %d", days, defaultSummaryWindowDays)
	}
}

func TestSummaryDefaultsToAllAccounts(t *testing.T) {
	lister := &fakeLister{byID: map[string][]upbank.RawTransaction{
		"acc-bills": {rawTx("tx-1", "Coffee Shop")},
		"acc-rent":  {rawTx("tx-2", "Rent")},
	}}
	s := newTestServer(t, lister, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := lister.callCount(); got != 2 {
		t.Fatalf("upstream calls = %d, want one per configured account", got)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, &fakeLister{}, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
	}
}
