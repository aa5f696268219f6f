package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) Insert(ctx context.Context, e *Event) error {
	const query = `
	INSERT INTO analytics_events (id, user_id, event_type, payload)
	VALUES (gen_random_uuid(), $1, $2, $3)
	RETURNING id, created_at
	`

	var userID any
	if e.UserID != "" {
		userID = e.UserID
	}
	var payload any
	if len(e.Payload) > 0 {
		payload = []byte(e.Payload)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, userID, e.Type, payload).
		Scan(&e.ID, &e.CreatedAt)
}
