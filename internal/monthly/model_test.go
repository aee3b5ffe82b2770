package monthly

import "testing"

func TestPrevMonth(t *testing.T) {
	cases := []struct {
		month, year         int
		wantMonth, wantYear int
	}{
		{2, 2025, 1, 2025},
		{1, 2025, 12, 2024},
		{12, 2025, 11, 2025},
	}
	for _, tc := range cases {
		m, y := prevMonth(tc.month, tc.year)
		if m != tc.wantMonth || y != tc.wantYear {
			t.Errorf("prevMonth(%d, %d) = (%d, %d), expected (%d, %d)",
				tc.month, tc.year, m, y, tc.wantMonth, tc.wantYear)
		}
	}
}

func TestPctChange(t *testing.T) {
	cases := []struct {
		current, previous int64
		want              float64
	}{
		{15000, 10000, 50},
		{5000, 10000, -50},
		{10000, 10000, 0},
		{10000, 0, 0},
		{0, 0, 0},
		{10000, 30000, -66.67},
	}
	for _, tc := range cases {
		if got := pctChange(tc.current, tc.previous); got != tc.want {
			t.Errorf("pctChange(%d, %d) = %v, expected %v", tc.current, tc.previous, got, tc.want)
		}
	}
}

func TestFillYear(t *testing.T) {
	rows := []MonthlyData{
		{Month: 3, Year: 2025, TotalIncome: 100},
		{Month: 7, Year: 2025, TotalExpenses: 200},
	}
	full := fillYear(2025, rows)
	if len(full) != 12 {
		t.Fatalf("expected 12 months, got %d", len(full))
	}
	for i, m := range full {
		if m.Month != i+1 || m.Year != 2025 {
			t.Errorf("slot %d: got month %d year %d", i, m.Month, m.Year)
		}
	}
	if full[2].TotalIncome != 100 {
		t.Errorf("march should keep its data, got %+v", full[2])
	}
	if full[6].TotalExpenses != 200 {
		t.Errorf("july should keep its data, got %+v", full[6])
	}
	if full[0].TotalIncome != 0 || full[11].TotalExpenses != 0 {
		t.Error("empty months must be zero-filled")
	}
}
