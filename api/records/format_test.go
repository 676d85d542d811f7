package records

import (
	"testing"

	"consolidate/internal/store"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1234.5", "1,234.50"},
		{"2000000", "2,000,000.00"},
		{"999", "999.00"},
		{"-1234567.8", "-1,234,567.80"},
		{"0", "0.00"},
		{"not-a-number", "not-a-number"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := formatCurrency(tc.in); got != tc.want {
			t.Fatalf("formatCurrency(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-01", "2024-03-01"},
		{"01/03/2024", "01/03/2024"}, // deviating values pass through
		{"2024-03-01T10:00:00Z", "2024-03-01T10:00:00Z"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := formatDate(tc.in); got != tc.want {
			t.Fatalf("formatDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatRecordLeavesStorageFieldsAlone(t *testing.T) {
	r := store.Record{
		DocNo:            "D-1",
		ConsiderationAmt: "1234.5",
		MarketValue:      "bad value",
		RegistrationDate: "2024-03-01",
	}
	out := formatRecord(r)
	if out.ConsiderationAmt != "1,234.50" {
		t.Fatalf("consideration_amt = %q", out.ConsiderationAmt)
	}
	if out.MarketValue != "bad value" {
		t.Fatalf("marketvalue = %q", out.MarketValue)
	}
	if out.DocNo != "D-1" {
		t.Fatalf("docno = %q", out.DocNo)
	}
	if r.ConsiderationAmt != "1234.5" {
		t.Fatalf("input record mutated: %q", r.ConsiderationAmt)
	}
}
