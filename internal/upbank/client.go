// Package upbank is the HTTP client for the Up banking API transaction
// listing endpoint, plus the normalization of its records into the
// canonical core model.
package upbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.up.com.au/api/v1"
	defaultTimeout = 30 * time.Second

	// pageSize is the page-size hint sent with every listing request. The
	// client fetches exactly one page and does not follow pagination
	// cursors; results beyond the first page are truncated.
	pageSize = "100"
)

// ErrMalformedResponse is returned when the response body's top-level shape
// is not the expected sequence-of-records envelope.
var ErrMalformedResponse = errors.New("upbank: malformed response envelope")

// APIError is returned when the upstream responds with a non-success
// status. It carries the upstream status and body for diagnostics; the
// transport layer maps it to a 5xx-equivalent.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upbank: upstream status %d: %s", e.StatusCode, e.Body)
}

// TransactionLister is the fetch contract the pipeline consumes. Fakes
// implement it in tests.
type TransactionLister interface {
	ListTransactions(ctx context.Context, accountID, startDate, endDate string) ([]RawTransaction, error)
}

// Client talks to the Up API with a bearer credential.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

var _ TransactionLister = (*Client)(nil)

// NewClient creates a client for the given bearer token. An empty baseURL
// selects the production API.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		token:      token,
	}
}

// ListTransactions fetches one page of raw transaction records for an
// account. Date bounds are calendar dates (YYYY-MM-DD); a non-empty start
// becomes filter[since] at midnight UTC, a non-empty end becomes
// filter[until] at 23:59:59 UTC, and absent bounds are omitted from the
// query entirely.
func (c *Client) ListTransactions(ctx context.Context, accountID, startDate, endDate string) ([]RawTransaction, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s/transactions", c.baseURL, url.PathEscape(accountID))

	params := url.Values{}
	if startDate != "" {
		params.Set("filter[since]", startDate+"T00:00:00Z")
	}
	if endDate != "" {
		params.Set("filter[until]", endDate+"T23:59:59Z")
	}
	params.Set("page[size]", pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if env, ok := decodeErrorEnvelope(body); ok {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Body:       env.Errors[0].Title + ": " + env.Errors[0].Detail,
			}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Two-step decode so a missing or null "data" field is caught as a
	// contract violation instead of an empty result.
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, ErrMalformedResponse
	}
	var records []RawTransaction
	if err := json.Unmarshal(envelope.Data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return records, nil
}
