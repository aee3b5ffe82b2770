package monthly

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack-backend/internal/money"
)

var ErrNotFound = errors.New("monthly data not found")

// MonthlyData is one user's aggregate snapshot for a month. Amounts are
// cents.
type MonthlyData struct {
	ID               int64
	UserID           string
	Month            int
	Year             int
	TotalIncome      int64
	TotalExpenses    int64
	AvailableBalance int64
	NetWorth         int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type MonthlyDataResponse struct {
	ID               int64           `json:"id,omitempty"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	NetWorth         decimal.Decimal `json:"net_worth"`
}

func (m *MonthlyData) Response() MonthlyDataResponse {
	return MonthlyDataResponse{
		ID:               m.ID,
		Month:            m.Month,
		Year:             m.Year,
		TotalIncome:      money.ToDecimal(m.TotalIncome),
		TotalExpenses:    money.ToDecimal(m.TotalExpenses),
		AvailableBalance: money.ToDecimal(m.AvailableBalance),
		NetWorth:         money.ToDecimal(m.NetWorth),
	}
}

type UpsertRequest struct {
	Month            int              `json:"month"`
	Year             int              `json:"year"`
	TotalIncome      *decimal.Decimal `json:"total_income"`
	TotalExpenses    *decimal.Decimal `json:"total_expenses"`
	AvailableBalance *decimal.Decimal `json:"available_balance"`
	NetWorth         *decimal.Decimal `json:"net_worth"`
}

type SummaryChanges struct {
	IncomeChange   float64 `json:"income_change"`
	ExpensesChange float64 `json:"expenses_change"`
	BalanceChange  float64 `json:"balance_change"`
}

type SummaryResponse struct {
	CurrentMonth  MonthlyDataResponse `json:"current_month"`
	PreviousMonth MonthlyDataResponse `json:"previous_month"`
	Changes       SummaryChanges      `json:"changes"`
}

// prevMonth steps one month back, wrapping over year boundaries.
func prevMonth(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// pctChange is the percent change from previous to current, rounded to
// two decimals. A missing or zero previous value yields 0 rather than a
// division blowup.
func pctChange(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*100) / 100
}

// fillYear pads rows out to all 12 months of a year, zero-filling the
// months that have no data.
func fillYear(year int, rows []MonthlyData) []MonthlyData {
	byMonth := make(map[int]MonthlyData, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]MonthlyData, 0, 12)
	for m := 1; m <= 12; m++ {
		if r, ok := byMonth[m]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, MonthlyData{Month: m, Year: year})
	}
	return out
}
