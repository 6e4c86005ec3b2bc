// Package accounts maps logical account keys to the opaque upstream
// account identifiers they are bound to.
package accounts

import (
	"errors"
	"fmt"
	"sort"

	"updash/internal/core"
)

// ErrInvalidAccount is returned for unknown keys and for an ALL resolution
// over an incomplete identifier set. Callers match it with errors.Is.
var ErrInvalidAccount = errors.New("accounts: invalid account")

// Registry resolves account keys against an injected, read-only mapping.
// It performs no I/O; construction happens once at process start.
type Registry struct {
	ids   map[string]string
	order []string
}

// NewRegistry builds a registry from the configured key-to-identifier map.
// Resolution order for ALL is the sorted key order, stable across calls.
func NewRegistry(ids map[string]string) *Registry {
	order := make([]string, 0, len(ids))
	for key := range ids {
		order = append(order, key)
	}
	sort.Strings(order)
	copied := make(map[string]string, len(ids))
	for key, id := range ids {
		copied[key] = id
	}
	return &Registry{ids: copied, order: order}
}

// Keys returns the configured account keys in resolution order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Resolve maps a key to its upstream identifiers. The sentinel ALL returns
// every configured identifier, all-or-nothing: a single empty identifier
// invalidates the whole set even if the others are fine.
func (r *Registry) Resolve(key string) ([]string, error) {
	if key == core.AllAccounts {
		if len(r.order) == 0 {
			return nil, fmt.Errorf("%w: no accounts configured", ErrInvalidAccount)
		}
		ids := make([]string, 0, len(r.order))
		for _, k := range r.order {
			id := r.ids[k]
			if id == "" {
				return nil, fmt.Errorf("%w: account %q has no identifier configured", ErrInvalidAccount, k)
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	id, ok := r.ids[key]
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccount, key)
	}
	return []string{id}, nil
}
