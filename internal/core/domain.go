package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// AllAccounts is the reserved account key meaning "every configured account".
	AllAccounts = "ALL"

	// UnknownCategory is substituted when the upstream category relationship
	// is null or absent.
	UnknownCategory = "Unknown"

	// DateLayout is the calendar-date format used by filters and series keys.
	DateLayout = "2006-01-02"
)

type (
	// Amount is the monetary value of a transaction as reported upstream.
	// Value is the signed decimal string (negative = withdrawal); base units
	// are passed through unchanged, never re-derived.
	Amount struct {
		CurrencyCode     string `json:"currencyCode"`
		Value            string `json:"value"`
		ValueInBaseUnits int64  `json:"valueInBaseUnits"`
	}

	// Transaction is the canonical, post-normalization record. SettledAt may
	// be empty for pending transactions; such records are retained.
	// CategoryID is never empty (UnknownCategory fallback).
	Transaction struct {
		ID          string  `json:"id"`
		Description string  `json:"description"`
		Amount      Amount  `json:"amount"`
		SettledAt   string  `json:"settledAt"`
		Category    *string `json:"category"`
		Account     string  `json:"account"`
		CategoryID  string  `json:"categoryId"`
	}

	// SearchFilter carries the caller-supplied criteria for one pipeline run.
	// MinAmount/MaxAmount are accepted on the inbound surface but not applied
	// by the fetch or filter layers.
	SearchFilter struct {
		StartDate   string
		EndDate     string
		Account     string
		Description string
		MinAmount   string
		MaxAmount   string
	}
)

var (
	ErrEmptyAccount = errors.New("empty account key")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
)

// Validate checks the filter is usable by the pipeline. Date bounds are
// optional here; the HTTP surface enforces its own mandatory fields.
func (f SearchFilter) Validate() error {
	if strings.TrimSpace(f.Account) == "" {
		return ErrEmptyAccount
	}
	if f.StartDate != "" {
		if _, err := time.Parse(DateLayout, f.StartDate); err != nil {
			return ErrInvalidDate
		}
	}
	if f.EndDate != "" {
		if _, err := time.Parse(DateLayout, f.EndDate); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}
