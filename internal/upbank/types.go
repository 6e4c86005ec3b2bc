package upbank

import "encoding/json"

// RawTransaction mirrors the upstream record shape before normalization.
// Attributes is a pointer so a missing object is distinguishable from an
// empty one; records without ID or Attributes are skipped, never errors.
type RawTransaction struct {
	ID            string         `json:"id"`
	Attributes    *RawAttributes `json:"attributes"`
	Relationships *RawRelations  `json:"relationships"`
}

// RawAttributes carries the attribute fields the pipeline copies verbatim.
type RawAttributes struct {
	Description string    `json:"description"`
	Amount      RawAmount `json:"amount"`
	SettledAt   string    `json:"settledAt"`
	Category    *string   `json:"category"`
	Account     string    `json:"account"`
}

// RawAmount is the upstream money shape; base units pass through unchanged.
type RawAmount struct {
	CurrencyCode     string `json:"currencyCode"`
	Value            string `json:"value"`
	ValueInBaseUnits int64  `json:"valueInBaseUnits"`
}

// RawRelations holds the category relationship link. Every level can be
// null upstream.
type RawRelations struct {
	Category *RawCategoryRel `json:"category"`
}

type RawCategoryRel struct {
	Data *RawCategoryData `json:"data"`
}

type RawCategoryData struct {
	ID string `json:"id"`
}

// errorEnvelope is the upstream error body, kept for diagnostics only.
type errorEnvelope struct {
	Errors []struct {
		Status string `json:"status"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func decodeErrorEnvelope(body []byte) (errorEnvelope, bool) {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Errors) == 0 {
		return errorEnvelope{}, false
	}
	return env, true
}
