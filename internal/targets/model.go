package targets

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrack-app/fintrack-backend/internal/money"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

var (
	// ErrNoTarget means no budget is set for a (user, category, type)
	// bucket. It is not a failure.
	ErrNoTarget = errors.New("no matching target")

	// ErrNotFound means the target does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("target not found")
)

// ValidType reports whether s is one of the two transaction types.
func ValidType(s string) bool {
	return s == TypeIncome || s == TypeExpense
}

// Target is a per-user budget goal for a (category, type) pair.
// CurrentAmount tracks progress against TargetAmount, clamped to
// [0, TargetAmount]. Amounts are cents.
type Target struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Category      string    `json:"category"`
	Type          string    `json:"type"`
	TargetAmount  int64     `json:"-"`
	CurrentAmount int64     `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TargetResponse struct {
	ID            int64           `json:"id"`
	Category      string          `json:"category"`
	Type          string          `json:"type"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (t *Target) Response() TargetResponse {
	return TargetResponse{
		ID:            t.ID,
		Category:      t.Category,
		Type:          t.Type,
		TargetAmount:  money.ToDecimal(t.TargetAmount),
		CurrentAmount: money.ToDecimal(t.CurrentAmount),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

type CreateTargetRequest struct {
	Category     string          `json:"category"`
	Type         string          `json:"type"`
	TargetAmount decimal.Decimal `json:"target_amount"`
}

type UpdateTargetRequest struct {
	Category     *string          `json:"category"`
	Type         *string          `json:"type"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
}
