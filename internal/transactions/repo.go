package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Insert(ctx context.Context, t *Transaction) error {
	return r.Pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, category, description, date, month, year)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, revision, created_at, updated_at`,
		t.UserID, t.Type, t.Amount, t.Category, t.Description, t.Date, t.Month, t.Year,
	).Scan(&t.ID, &t.Revision, &t.CreatedAt, &t.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, userID string, id int64) (*Transaction, error) {
	var t Transaction
	err := r.Pool.QueryRow(ctx,
		`SELECT id, user_id::text, type, amount, category, description, date, month, year, target_id, revision, created_at, updated_at
		 FROM transactions
		 WHERE id = $1 AND user_id = $2::uuid`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.Month, &t.Year, &t.TargetID, &t.Revision, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) List(ctx context.Context, userID string, month, year *int) ([]Transaction, error) {
	query := `SELECT id, user_id::text, type, amount, category, description, date, month, year, target_id, revision, created_at, updated_at
		 FROM transactions
		 WHERE user_id = $1::uuid`
	args := []any{userID}
	if month != nil {
		args = append(args, *month)
		query += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(" AND year = $%d", len(args))
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.Month, &t.Year, &t.TargetID, &t.Revision, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields and bumps the revision used by the
// reconciliation ledger.
func (r *Repository) Update(ctx context.Context, t *Transaction) error {
	err := r.Pool.QueryRow(ctx,
		`UPDATE transactions
		 SET type = $3, amount = $4, category = $5, description = $6,
		     date = $7, month = $8, year = $9,
		     revision = revision + 1, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2::uuid
		 RETURNING revision, updated_at`,
		t.ID, t.UserID, t.Type, t.Amount, t.Category, t.Description, t.Date, t.Month, t.Year,
	).Scan(&t.Revision, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2::uuid`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
