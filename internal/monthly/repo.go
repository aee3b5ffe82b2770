package monthly

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const monthlyColumns = `id, user_id::text, month, year, total_income, total_expenses, available_balance, net_worth, created_at, updated_at`

func scanMonthly(row pgx.Row, m *MonthlyData) error {
	return row.Scan(&m.ID, &m.UserID, &m.Month, &m.Year, &m.TotalIncome, &m.TotalExpenses, &m.AvailableBalance, &m.NetWorth, &m.CreatedAt, &m.UpdatedAt)
}

func (r *Repository) List(ctx context.Context, userID string) ([]MonthlyData, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+monthlyColumns+`
		 FROM monthly_data
		 WHERE user_id = $1::uuid
		 ORDER BY year DESC, month DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MonthlyData, 0)
	for rows.Next() {
		var m MonthlyData
		if err := scanMonthly(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, userID string, month, year int) (*MonthlyData, error) {
	var m MonthlyData
	err := scanMonthly(r.Pool.QueryRow(ctx,
		`SELECT `+monthlyColumns+`
		 FROM monthly_data
		 WHERE user_id = $1::uuid AND month = $2 AND year = $3`,
		userID, month, year,
	), &m)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListYear(ctx context.Context, userID string, year int) ([]MonthlyData, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+monthlyColumns+`
		 FROM monthly_data
		 WHERE user_id = $1::uuid AND year = $2
		 ORDER BY month ASC`,
		userID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MonthlyData, 0)
	for rows.Next() {
		var m MonthlyData
		if err := scanMonthly(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Upsert creates or updates the row for (user, month, year). Nil fields
// leave the stored value untouched on update and default to 0 on insert.
func (r *Repository) Upsert(ctx context.Context, userID string, month, year int, totalIncome, totalExpenses, availableBalance, netWorth *int64) (*MonthlyData, bool, error) {
	var m MonthlyData
	var inserted bool
	err := r.Pool.QueryRow(ctx,
		`INSERT INTO monthly_data (user_id, month, year, total_income, total_expenses, available_balance, net_worth)
		 VALUES ($1::uuid, $2, $3, COALESCE($4, 0), COALESCE($5, 0), COALESCE($6, 0), COALESCE($7, 0))
		 ON CONFLICT (user_id, month, year) DO UPDATE SET
		   total_income = COALESCE($4, monthly_data.total_income),
		   total_expenses = COALESCE($5, monthly_data.total_expenses),
		   available_balance = COALESCE($6, monthly_data.available_balance),
		   net_worth = COALESCE($7, monthly_data.net_worth),
		   updated_at = NOW()
		 RETURNING `+monthlyColumns+`, (xmax = 0)`,
		userID, month, year, totalIncome, totalExpenses, availableBalance, netWorth,
	).Scan(&m.ID, &m.UserID, &m.Month, &m.Year, &m.TotalIncome, &m.TotalExpenses, &m.AvailableBalance, &m.NetWorth, &m.CreatedAt, &m.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, err
	}
	return &m, inserted, nil
}

// Rollup re-derives every user's income and expense totals for the given
// month straight from the transactions table, so incrementally drifting
// counters get corrected. Net worth is user-managed and left alone on
// existing rows.
func (r *Repository) Rollup(ctx context.Context, month, year int) (int64, error) {
	tag, err := r.Pool.Exec(ctx,
		`INSERT INTO monthly_data (user_id, month, year, total_income, total_expenses, available_balance, net_worth)
		 SELECT user_id, $1, $2,
		        COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0),
		        COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0),
		        COALESCE(SUM(CASE WHEN type = 'income' THEN amount END), 0)
		          - COALESCE(SUM(CASE WHEN type = 'expense' THEN amount END), 0),
		        0
		 FROM transactions
		 WHERE month = $1 AND year = $2
		 GROUP BY user_id
		 ON CONFLICT (user_id, month, year) DO UPDATE SET
		   total_income = EXCLUDED.total_income,
		   total_expenses = EXCLUDED.total_expenses,
		   available_balance = EXCLUDED.available_balance,
		   updated_at = NOW()`,
		month, year,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
