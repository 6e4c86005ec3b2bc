package core

import "testing"

func TestSearchFilterValidate(t *testing.T) {
	good := SearchFilter{StartDate: "2025-01-01", EndDate: "2025-01-31", Account: "GROCERIES"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Absent bounds are allowed at the pipeline level.
	if err := (SearchFilter{Account: AllAccounts}).Validate(); err != nil {
		t.Fatalf("expected ok for unbounded filter, got %v", err)
	}

	bads := []SearchFilter{
		{StartDate: "2025-01-01", EndDate: "2025-01-31", Account: ""},
		{StartDate: "2025-01-01", EndDate: "2025-01-31", Account: "   "},
		{StartDate: "01/01/2025", Account: "GROCERIES"},
		{EndDate: "not-a-date", Account: "GROCERIES"},
	}
	for i, f := range bads {
		if err := f.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseValueCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"-10.00", -1000, true},
		{"5.5", 550, true},
		{"0.00", 0, true},
		{"-0.01", -1, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"20", 2000, true},
		{"+3.00", 300, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12,34", 0, false},
	}
	for _, tc := range cases {
		cents, ok := ParseValueCents(tc.in)
		if ok != tc.ok || cents != tc.cents {
			t.Fatalf("ParseValueCents(%q) = %d,%v; want %d,%v", tc.in, cents, ok, tc.cents, tc.ok)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{-1250, "-12.50"},
		{2500, "25.00"},
		{0, "0.00"},
		{5, "0.05"},
		{-5, "-0.05"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.cents); got != tc.want {
			t.Fatalf("FormatCents(%d) = %q; want %q", tc.cents, got, tc.want)
		}
	}
}
