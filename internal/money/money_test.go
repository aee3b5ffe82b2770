package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFromDecimal(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"0.01", 1, true},
		{"200.00", 20000, true},
		{"0", 0, true},
		{"-5.50", -550, true},
		{"1.005", 0, false},
		{"1.239", 0, false},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		if err != nil {
			t.Fatalf("bad test input %q: %v", tc.in, err)
		}
		got, err := FromDecimal(d)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q: expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error, got %d", tc.in, got)
		}
	}
}

func TestFromDecimalPositive(t *testing.T) {
	for _, in := range []string{"0", "-1", "-0.01"} {
		d := decimal.RequireFromString(in)
		if _, err := FromDecimalPositive(d); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
	if got, err := FromDecimalPositive(decimal.RequireFromString("70.00")); err != nil || got != 7000 {
		t.Fatalf("expected 7000, got %d (err=%v)", got, err)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, 999999999} {
		d := ToDecimal(cents)
		back, err := FromDecimal(d)
		if err != nil || back != cents {
			t.Fatalf("round trip %d: got %d (err=%v)", cents, back, err)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{20000, "200.00"},
		{-550, "-5.50"},
		{13000, "130.00"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.out {
			t.Fatalf("Format(%d) = %q, expected %q", tc.in, got, tc.out)
		}
	}
}
