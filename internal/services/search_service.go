// Package services orchestrates the transaction retrieval pipeline:
// account resolution, concurrent fan-out fetch, normalization and
// client-side filtering.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"updash/internal/accounts"
	"updash/internal/core"
	"updash/internal/upbank"
)

// SearchService runs one aggregation per call. Transactions are ephemeral:
// constructed per request, never persisted.
type SearchService struct {
	registry *accounts.Registry
	lister   upbank.TransactionLister
}

func NewSearchService(registry *accounts.Registry, lister upbank.TransactionLister) *SearchService {
	return &SearchService{
		registry: registry,
		lister:   lister,
	}
}

// Search resolves the filter's account key, fetches each resolved account
// concurrently, normalizes and filters every payload, and returns the
// per-account sequences concatenated in resolution order.
//
// The fan-out join is deliberately all-or-nothing: the errgroup waits for
// every fetch and the first error aborts the whole aggregation. Partial
// data is never returned alongside an error.
func (s *SearchService) Search(ctx context.Context, filter core.SearchFilter) ([]core.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", accounts.ErrInvalidAccount, err)
	}

	ids, err := s.registry.Resolve(filter.Account)
	if err != nil {
		return nil, err
	}

	// One slot per account keeps resolution order; goroutines never share
	// slices, so the only coordination point is the group wait.
	results := make([][]core.Transaction, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, accountID := range ids {
		g.Go(func() error {
			raws, err := s.lister.ListTransactions(gctx, accountID, filter.StartDate, filter.EndDate)
			if err != nil {
				return fmt.Errorf("account %s: %w", accountID, err)
			}
			txs := upbank.NormalizeAll(raws)
			if filter.Description != "" {
				txs = filterByDescription(txs, filter.Description)
			}
			results[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flattened []core.Transaction
	for _, txs := range results {
		flattened = append(flattened, txs...)
	}

	slog.DebugContext(ctx, "Search completed",
		"account", filter.Account,
		"accounts_fetched", len(ids),
		"transactions", len(flattened))

	return flattened, nil
}

// Summarize runs Search and derives the chart aggregates from the result.
func (s *SearchService) Summarize(ctx context.Context, filter core.SearchFilter) (core.Summary, error) {
	txs, err := s.Search(ctx, filter)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(txs), nil
}

func filterByDescription(txs []core.Transaction, query string) []core.Transaction {
	out := txs[:0:0]
	for _, tx := range txs {
		if core.MatchesDescription(tx.Description, query) {
			out = append(out, tx)
		}
	}
	return out
}
