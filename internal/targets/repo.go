package targets

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

func (r *Repository) Insert(ctx context.Context, t *Target) error {
	return r.Pool.QueryRow(ctx,
		`INSERT INTO targets (user_id, category, type, target_amount, current_amount)
		 VALUES ($1::uuid, $2, $3, $4, 0)
		 RETURNING id, current_amount, created_at, updated_at`,
		t.UserID, t.Category, t.Type, t.TargetAmount,
	).Scan(&t.ID, &t.CurrentAmount, &t.CreatedAt, &t.UpdatedAt)
}

func (r *Repository) GetByID(ctx context.Context, userID string, id int64) (*Target, error) {
	var t Target
	err := r.Pool.QueryRow(ctx,
		`SELECT id, user_id::text, category, type, target_amount, current_amount, created_at, updated_at
		 FROM targets
		 WHERE id = $1 AND user_id = $2::uuid`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.Category, &t.Type, &t.TargetAmount, &t.CurrentAmount, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) List(ctx context.Context, userID string) ([]Target, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, user_id::text, category, type, target_amount, current_amount, created_at, updated_at
		 FROM targets
		 WHERE user_id = $1::uuid
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Target, 0)
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.UserID, &t.Category, &t.Type, &t.TargetAmount, &t.CurrentAmount, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields. Lowering the target amount below
// the tracked progress clamps progress down to keep it within bounds.
func (r *Repository) Update(ctx context.Context, t *Target) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE targets
		 SET category = $3,
		     type = $4,
		     target_amount = $5,
		     current_amount = LEAST(current_amount, $5),
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2::uuid`,
		t.ID, t.UserID, t.Category, t.Type, t.TargetAmount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM targets WHERE id = $1 AND user_id = $2::uuid`,
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

// Store implementation for the reconciler.

func (r *Repository) Find(ctx context.Context, userID, category, typ string) (*Target, error) {
	var t Target
	err := r.Pool.QueryRow(ctx,
		`SELECT id, user_id::text, category, type, target_amount, current_amount, created_at, updated_at
		 FROM targets
		 WHERE user_id = $1::uuid AND category = $2 AND type = $3
		 LIMIT 1`,
		userID, category, typ,
	).Scan(&t.ID, &t.UserID, &t.Category, &t.Type, &t.TargetAmount, &t.CurrentAmount, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoTarget
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ApplyDelta shifts progress by delta in one conditional update so two
// concurrent reconciliations never lose each other's writes. The
// self-join returns the pre-update progress alongside the new one.
func (r *Repository) ApplyDelta(ctx context.Context, targetID int64, delta int64) (int64, int64, error) {
	var prev, cur int64
	err := r.Pool.QueryRow(ctx,
		`UPDATE targets t
		 SET current_amount = LEAST(t.target_amount, GREATEST(0, t.current_amount + $2)),
		     updated_at = NOW()
		 FROM targets old
		 WHERE t.id = $1 AND old.id = t.id
		 RETURNING old.current_amount, t.current_amount`,
		targetID, delta,
	).Scan(&prev, &cur)
	if err != nil {
		return 0, 0, err
	}
	return prev, cur, nil
}

func (r *Repository) MarkApplied(ctx context.Context, txnID int64, revision int, op Op) (bool, error) {
	tag, err := r.Pool.Exec(ctx,
		`INSERT INTO target_progress_ledger (txn_id, revision, op)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (txn_id, revision, op) DO NOTHING`,
		txnID, revision, string(op),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) LinkTransaction(ctx context.Context, txnID int64, targetID *int64) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE transactions SET target_id = $2 WHERE id = $1`,
		txnID, targetID,
	)
	return err
}
