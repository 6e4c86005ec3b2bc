package export

import (
	"context"
	"errors"
	"testing"

	"updash/internal/core"
)

type nopExporter struct{}

func (nopExporter) Append(context.Context, core.Transaction) (string, error) { return "nop:1", nil }

func newTestFactory(sheetsErr error) *Factory {
	return NewFactory(nil,
		func(ctx context.Context) (TransactionExporter, error) {
			if sheetsErr != nil {
				return nil, sheetsErr
			}
			return nopExporter{}, nil
		},
		func() TransactionExporter { return nopExporter{} },
	)
}

func TestTargetIsValid(t *testing.T) {
	cases := []struct {
		target Target
		valid  bool
	}{
		{SheetsTarget, true},
		{MemoryTarget, true},
		{Target("notion"), false},
		{Target(""), false},
	}
	for _, tc := range cases {
		if got := tc.target.IsValid(); got != tc.valid {
			t.Errorf("IsValid(%q) = %v, want %v", tc.target, got, tc.valid)
		}
	}
}

func TestFactoryCreate(t *testing.T) {
	f := newTestFactory(nil)

	for _, target := range []Target{SheetsTarget, MemoryTarget} {
		exporter, err := f.Create(context.Background(), target)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", target, err)
		}
		if exporter == nil {
			t.Fatalf("Create(%q) returned nil exporter", target)
		}
	}

	if _, err := f.Create(context.Background(), Target("notion")); err == nil {
		t.Fatal("Create with invalid target should fail")
	}
}

func TestFactoryCreateSheetsFailure(t *testing.T) {
	wantErr := errors.New("missing GOOGLE_SPREADSHEET_ID")
	f := newTestFactory(wantErr)

	_, err := f.Create(context.Background(), SheetsTarget)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v; want wrapped %v", err, wantErr)
	}
}
