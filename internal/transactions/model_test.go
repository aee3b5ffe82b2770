package transactions

import (
	"testing"
	"time"
)

func TestMonthYear(t *testing.T) {
	cases := []struct {
		date  string
		month int
		year  int
	}{
		{"2025-01-01", 1, 2025},
		{"2025-12-31", 12, 2025},
		{"2024-02-29", 2, 2024},
		{"2026-07-15", 7, 2026},
	}
	for _, tc := range cases {
		date, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", tc.date, err)
		}
		m, y := monthYear(date)
		if m != tc.month || y != tc.year {
			t.Errorf("monthYear(%s) = (%d, %d), expected (%d, %d)", tc.date, m, y, tc.month, tc.year)
		}
	}
}
