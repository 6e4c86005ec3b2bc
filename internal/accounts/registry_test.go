package accounts

import (
	"errors"
	"reflect"
	"testing"

	"updash/internal/core"
)

func TestResolveSingleKey(t *testing.T) {
	r := NewRegistry(map[string]string{
		"GROCERIES": "acc-groceries",
		"RENT":      "acc-rent",
	})

	ids, err := r.Resolve("GROCERIES")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"acc-groceries"}) {
		t.Fatalf("ids = %v", ids)
	}
}

func TestResolveUnknownKey(t *testing.T) {
	r := NewRegistry(map[string]string{"RENT": "acc-rent"})

	for _, key := range []string{"HOLIDAYS", "", "rent"} {
		_, err := r.Resolve(key)
		if !errors.Is(err, ErrInvalidAccount) {
			t.Fatalf("Resolve(%q) err = %v; want ErrInvalidAccount", key, err)
		}
	}
}

func TestResolveEmptyIdentifier(t *testing.T) {
	r := NewRegistry(map[string]string{"GIFTS": ""})
	if _, err := r.Resolve("GIFTS"); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("err = %v; want ErrInvalidAccount", err)
	}
}

func TestResolveAll(t *testing.T) {
	r := NewRegistry(map[string]string{
		"RENT":      "acc-rent",
		"GROCERIES": "acc-groceries",
		"BILLS":     "acc-bills",
	})

	ids, err := r.Resolve(core.AllAccounts)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := []string{"acc-bills", "acc-groceries", "acc-rent"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v; want %v", ids, want)
	}

	// Order-stable across calls.
	again, err := r.Resolve(core.AllAccounts)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !reflect.DeepEqual(ids, again) {
		t.Fatalf("resolution order unstable: %v vs %v", ids, again)
	}
}

func TestResolveAllIsAllOrNothing(t *testing.T) {
	r := NewRegistry(map[string]string{
		"RENT":  "acc-rent",
		"GIFTS": "", // missing credential invalidates the whole set
	})
	if _, err := r.Resolve(core.AllAccounts); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("err = %v; want ErrInvalidAccount", err)
	}
}

func TestResolveAllEmptyRegistry(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.Resolve(core.AllAccounts); !errors.Is(err, ErrInvalidAccount) {
		t.Fatalf("err = %v; want ErrInvalidAccount", err)
	}
}
