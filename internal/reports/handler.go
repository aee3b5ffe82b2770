package reports

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrack-app/fintrack-backend/internal/auth"
)

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

type StatementItem struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Date        string `json:"date"`
}

type StatementResponse struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	TotalIncome  int64           `json:"total_income"`
	TotalExpense int64           `json:"total_expense"`
	Items        []StatementItem `json:"items"`
}

// parseRange validates the from/to query params, defaulting to the last
// 30 days.
func parseRange(c *fiber.Ctx) (string, string, error) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		end := time.Now()
		start := end.AddDate(0, 0, -29)
		from = start.Format("2006-01-02")
		to = end.Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}
	return from, to, nil
}

func (h *Handler) statement(ctx context.Context, userID, from, to string) (*StatementResponse, error) {
	rows, err := h.Pool.Query(ctx, `
		SELECT id, type, category, description, amount, date::text
		FROM transactions
		WHERE user_id = $1::uuid AND date BETWEEN $2::date AND $3::date
		ORDER BY date DESC, id DESC
		LIMIT 2000
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resp := &StatementResponse{From: from, To: to, Items: make([]StatementItem, 0)}
	for rows.Next() {
		var it StatementItem
		if err := rows.Scan(&it.ID, &it.Type, &it.Category, &it.Description, &it.Amount, &it.Date); err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = h.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0)::bigint,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0)::bigint
		FROM transactions
		WHERE user_id = $1::uuid AND date BETWEEN $2::date AND $3::date
	`, userID, from, to).Scan(&resp.TotalIncome, &resp.TotalExpense)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (h *Handler) Statement(c *fiber.Ctx) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	from, to, err := parseRange(c)
	if err != nil {
		return err
	}

	resp, err := h.statement(c.UserContext(), userID, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed statement: "+err.Error())
	}
	return c.JSON(resp)
}
