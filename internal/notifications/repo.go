package notifications

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

func (r *Repository) Insert(ctx context.Context, n *Notification) error {
	return r.Pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, title, message, type, is_read)
		 VALUES ($1::uuid, $2, $3, $4, false)
		 RETURNING id, is_read, created_at`,
		n.UserID, n.Title, n.Message, n.Type,
	).Scan(&n.ID, &n.IsRead, &n.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, userID string, id int64) (*Notification, error) {
	var n Notification
	err := r.Pool.QueryRow(ctx,
		`SELECT id, user_id::text, title, message, type, is_read, created_at
		 FROM notifications
		 WHERE id = $1 AND user_id = $2::uuid`,
		id, userID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repository) List(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT id, user_id::text, title, message, type, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1::uuid
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) MarkRead(ctx context.Context, userID string, id int64) (*Notification, error) {
	var n Notification
	err := r.Pool.QueryRow(ctx,
		`UPDATE notifications
		 SET is_read = true
		 WHERE id = $1 AND user_id = $2::uuid
		 RETURNING id, user_id::text, title, message, type, is_read, created_at`,
		id, userID,
	).Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *Repository) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2::uuid`,
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
