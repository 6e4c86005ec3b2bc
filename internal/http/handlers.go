package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"updash/internal/accounts"
	"updash/internal/amqp"
	"updash/internal/core"
	applog "updash/internal/log"
	"updash/internal/upbank"
)

// defaultSummaryWindowDays is the trailing window applied when the summary
// endpoint gets no explicit date bounds.
const defaultSummaryWindowDays = 8

type searchRequest struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Account     string `json:"account"`
	Description string `json:"description"`
	MinAmount   string `json:"minAmount"`
	MaxAmount   string `json:"maxAmount"`
	Export      bool   `json:"export"`
}

type searchResponse struct {
	Data     []core.Transaction `json:"data"`
	Exported int                `json:"exported,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.StartDate) == "" ||
		strings.TrimSpace(req.EndDate) == "" ||
		strings.TrimSpace(req.Account) == "" {
		writeError(w, http.StatusBadRequest, "startDate, endDate and account are required")
		return
	}

	filter := core.SearchFilter{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Account:     req.Account,
		Description: req.Description,
		MinAmount:   req.MinAmount,
		MaxAmount:   req.MaxAmount,
	}

	txs, err := s.searchCached(r, filter)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}

	resp := searchResponse{Data: txs}
	if req.Export && s.publisher != nil {
		resp.Exported = s.publishForExport(r, txs)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	filter := core.SearchFilter{
		StartDate:   strings.TrimSpace(q.Get("startDate")),
		EndDate:     strings.TrimSpace(q.Get("endDate")),
		Account:     strings.TrimSpace(q.Get("account")),
		Description: q.Get("description"),
	}
	if filter.Account == "" {
		filter.Account = core.AllAccounts
	}
	if filter.StartDate == "" && filter.EndDate == "" {
		// Trailing window ending today.
		now := time.Now().UTC()
		filter.EndDate = now.Format(core.DateLayout)
		filter.StartDate = now.AddDate(0, 0, -(defaultSummaryWindowDays - 1)).Format(core.DateLayout)
	}

	key := filterCacheKey(filter)
	if sum, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "account", filter.Account)
		writeJSON(w, http.StatusOK, sum)
		return
	}

	sum, err := s.search.Summarize(r.Context(), filter)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	s.summaryCache.Set(key, sum)

	writeJSON(w, http.StatusOK, sum)
}

// searchCached serves repeated identical searches from the LRU cache.
func (s *Server) searchCached(r *http.Request, filter core.SearchFilter) ([]core.Transaction, error) {
	key := filterCacheKey(filter)
	if txs, found := s.searchCache.Get(key); found {
		slog.DebugContext(r.Context(), "Search cache hit", "account", filter.Account, "count", len(txs))
		// Copy to prevent external mutation of the cached slice.
		out := make([]core.Transaction, len(txs))
		copy(out, txs)
		return out, nil
	}

	txs, err := s.search.Search(r.Context(), filter)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	s.searchCache.Set(key, txs)
	return txs, nil
}

// publishForExport queues every result transaction. A publish failure skips
// that transaction; the search response itself is already committed.
func (s *Server) publishForExport(r *http.Request, txs []core.Transaction) int {
	exported := 0
	for _, tx := range txs {
		msg := amqp.NewTransactionExportMessage(tx)
		if err := s.publisher.PublishTransactionExport(r.Context(), msg); err != nil {
			slog.ErrorContext(r.Context(), "Failed to publish export message",
				applog.FieldError, err,
				applog.FieldTransactionID, tx.ID,
				applog.FieldComponent, applog.ComponentExport)
			continue
		}
		exported++
	}
	return exported
}

// writeSearchError maps pipeline errors to HTTP statuses: caller mistakes
// (unknown account, bad dates) are 400, upstream failures and contract
// violations are 502.
func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *upbank.APIError
	switch {
	case errors.Is(err, accounts.ErrInvalidAccount),
		errors.Is(err, core.ErrEmptyAccount),
		errors.Is(err, core.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &apiErr), errors.Is(err, upbank.ErrMalformedResponse):
		slog.ErrorContext(r.Context(), "Upstream failure",
			applog.FieldError, err,
			applog.FieldComponent, applog.ComponentUpbank)
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
