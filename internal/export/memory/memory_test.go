package memory

import (
	"context"
	"testing"

	"updash/internal/core"
)

func TestAppendReturnsSequentialRefs(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref1, err := s.Append(ctx, core.Transaction{ID: "tx-1", Description: "Coffee"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	ref2, err := s.Append(ctx, core.Transaction{ID: "tx-2", Description: "Rent"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if ref1 != "mem:1" || ref2 != "mem:2" {
		t.Fatalf("refs = %q, %q", ref1, ref2)
	}

	items := s.Items()
	if len(items) != 2 || items[0].ID != "tx-1" || items[1].ID != "tx-2" {
		t.Fatalf("items = %+v", items)
	}
}

func TestAppendRejectsMissingID(t *testing.T) {
	s := New()
	if _, err := s.Append(context.Background(), core.Transaction{Description: "no id"}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if len(s.Items()) != 0 {
		t.Fatal("rejected transaction should not be stored")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := New()
	_, _ = s.Append(context.Background(), core.Transaction{ID: "tx-1"})

	items := s.Items()
	items[0].ID = "mutated"

	if got := s.Items()[0].ID; got != "tx-1" {
		t.Fatalf("internal state mutated: %q", got)
	}
}
