package upbank

import "updash/internal/core"

// Normalize converts a raw upstream record into the canonical transaction.
// Records missing an id or the attributes object are skipped (ok=false),
// never surfaced as errors: a malformed individual record degrades the
// result set, it does not fail the batch.
func Normalize(raw RawTransaction) (core.Transaction, bool) {
	if raw.ID == "" || raw.Attributes == nil {
		return core.Transaction{}, false
	}

	categoryID := core.UnknownCategory
	if raw.Relationships != nil &&
		raw.Relationships.Category != nil &&
		raw.Relationships.Category.Data != nil &&
		raw.Relationships.Category.Data.ID != "" {
		categoryID = raw.Relationships.Category.Data.ID
	}

	attrs := raw.Attributes
	return core.Transaction{
		ID:          raw.ID,
		Description: attrs.Description,
		Amount: core.Amount{
			CurrencyCode:     attrs.Amount.CurrencyCode,
			Value:            attrs.Amount.Value,
			ValueInBaseUnits: attrs.Amount.ValueInBaseUnits,
		},
		SettledAt:  attrs.SettledAt,
		Category:   attrs.Category,
		Account:    attrs.Account,
		CategoryID: categoryID,
	}, true
}

// NormalizeAll applies Normalize to every element, dropping skips. Output
// length is at most the input length.
func NormalizeAll(raws []RawTransaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(raws))
	for _, raw := range raws {
		if tx, ok := Normalize(raw); ok {
			out = append(out, tx)
		}
	}
	return out
}
