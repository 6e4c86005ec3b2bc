package core

import "time"

// Totals splits the parsed transaction values into withdrawal and deposit
// sums. Withdrawals keep their sign (a negative total).
type Totals struct {
	WithdrawalsCents int64 `json:"withdrawalsCents"`
	DepositsCents    int64 `json:"depositsCents"`
}

// SeriesPoint is one bucket of a grouped series, keyed by calendar date,
// category id or description depending on the series.
type SeriesPoint struct {
	Key         string `json:"key"`
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
}

// Summary is the derived view consumed by chart rendering: totals plus the
// date-, category- and description-keyed series.
type Summary struct {
	Totals        Totals        `json:"totals"`
	ByDate        []SeriesPoint `json:"byDate"`
	ByCategory    []SeriesPoint `json:"byCategory"`
	ByDescription []SeriesPoint `json:"byDescription"`
}

// Summarize computes chart aggregates over a sequence of transactions.
// A non-numeric amount value contributes zero rather than aborting the
// aggregation. Records without a parseable SettledAt land in the
// UnknownCategory date bucket so pending transactions stay visible.
func Summarize(txs []Transaction) Summary {
	var sum Summary
	byDate := newBuckets()
	byCategory := newBuckets()
	byDescription := newBuckets()

	for _, tx := range txs {
		cents, ok := ParseValueCents(tx.Amount.Value)
		if !ok {
			cents = 0
		}
		if cents < 0 {
			sum.Totals.WithdrawalsCents += cents
		} else {
			sum.Totals.DepositsCents += cents
		}

		byDate.add(settledDateKey(tx.SettledAt), cents)
		byCategory.add(tx.CategoryID, cents)
		// Donut weights: positive amounts only, keyed by description.
		if cents > 0 {
			key := tx.Description
			if key == "" {
				key = UnknownCategory
			}
			byDescription.add(key, cents)
		}
	}

	sum.ByDate = byDate.points()
	sum.ByCategory = byCategory.points()
	sum.ByDescription = byDescription.points()
	return sum
}

// settledDateKey formats the settled timestamp as a calendar date.
func settledDateKey(settledAt string) string {
	if settledAt == "" {
		return UnknownCategory
	}
	t, err := time.Parse(time.RFC3339, settledAt)
	if err != nil {
		return UnknownCategory
	}
	return t.Format(DateLayout)
}

// buckets accumulates sums per key preserving first-seen order.
type buckets struct {
	order []string
	sums  map[string]int64
}

func newBuckets() *buckets {
	return &buckets{sums: make(map[string]int64)}
}

func (b *buckets) add(key string, cents int64) {
	if _, seen := b.sums[key]; !seen {
		b.order = append(b.order, key)
	}
	b.sums[key] += cents
}

func (b *buckets) points() []SeriesPoint {
	out := make([]SeriesPoint, 0, len(b.order))
	for _, key := range b.order {
		cents := b.sums[key]
		out = append(out, SeriesPoint{Key: key, AmountCents: cents, Amount: FormatCents(cents)})
	}
	return out
}
