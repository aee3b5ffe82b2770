package transactions

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack-backend/internal/money"
)

// ErrNotFound means the transaction does not exist or belongs to
// another user.
var ErrNotFound = errors.New("transaction not found")

// Transaction is a single income or expense entry. Month and year are
// denormalized from Date for fast range queries. TargetID records which
// target the entry currently counts against, when any matches.
// Amount is cents.
type Transaction struct {
	ID          int64
	UserID      string
	Type        string
	Amount      int64
	Category    string
	Description string
	Date        time.Time
	Month       int
	Year        int
	TargetID    *int64
	Revision    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TransactionResponse struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	TargetID    *int64          `json:"target_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *Transaction) Response() TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      money.ToDecimal(t.Amount),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format("2006-01-02"),
		Month:       t.Month,
		Year:        t.Year,
		TargetID:    t.TargetID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type CreateTransactionRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Month       *int            `json:"month"`
	Year        *int            `json:"year"`
}

type UpdateTransactionRequest struct {
	Type        *string          `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	Month       *int             `json:"month"`
	Year        *int             `json:"year"`
}

// monthYear derives the denormalized month (1-12) and year from a date.
func monthYear(date time.Time) (int, int) {
	return int(date.Month()), date.Year()
}
