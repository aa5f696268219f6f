package list

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, l *List) error {
	const query = `
	INSERT INTO lists (id, user_id, name, description, is_public)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query, l.UserID, l.Name, l.Description, l.IsPublic).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *PostgresRepo) ListByUser(ctx context.Context, userID string) ([]List, error) {
	const query = `
	SELECT l.id, l.user_id, l.name, l.description, l.is_public, l.created_at, l.updated_at,
	       (SELECT COUNT(*) FROM list_cards lc WHERE lc.list_id = l.id) AS card_count
	FROM lists l
	WHERE l.user_id = $1
	ORDER BY l.created_at DESC, l.id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []List
	for rows.Next() {
		var l List
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Name, &l.Description, &l.IsPublic,
			&l.CreatedAt, &l.UpdatedAt, &l.CardCount,
		); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, listID string) (List, error) {
	const query = `
	SELECT l.id, l.user_id, l.name, l.description, l.is_public, l.created_at, l.updated_at,
	       (SELECT COUNT(*) FROM list_cards lc WHERE lc.list_id = l.id) AS card_count
	FROM lists l
	WHERE l.id = $1
	LIMIT 1
	`
	var l List
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, listID).Scan(
		&l.ID, &l.UserID, &l.Name, &l.Description, &l.IsPublic,
		&l.CreatedAt, &l.UpdatedAt, &l.CardCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return List{}, ErrListNotFound
		}
		return List{}, err
	}
	return l, nil
}

func (r *PostgresRepo) Update(ctx context.Context, userID, listID string, patch UpdatePatch) error {
	fields := []string{}
	args := []any{}
	argn := 1

	if patch.Name != nil {
		fields = append(fields, "name = $"+strconv.Itoa(argn))
		args = append(args, *patch.Name)
		argn++
	}
	if patch.Description != nil {
		fields = append(fields, "description = $"+strconv.Itoa(argn))
		args = append(args, *patch.Description)
		argn++
	}
	if patch.IsPublic != nil {
		fields = append(fields, "is_public = $"+strconv.Itoa(argn))
		args = append(args, *patch.IsPublic)
		argn++
	}

	if len(fields) == 0 {
		return nil
	}

	fields = append(fields, "updated_at = now()")
	args = append(args, userID, listID)

	query := "UPDATE lists SET " + strings.Join(fields, ", ") +
		" WHERE user_id = $" + strconv.Itoa(argn) + " AND id = $" + strconv.Itoa(argn+1)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, listID string) error {
	const query = `DELETE FROM lists WHERE user_id = $1 AND id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, userID, listID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrListNotFound
	}
	return nil
}

func (r *PostgresRepo) AddCard(ctx context.Context, listID, cardID string) error {
	const query = `
	INSERT INTO list_cards (list_id, card_id)
	VALUES ($1, $2)
	ON CONFLICT (list_id, card_id) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, listID, cardID)
	return err
}

func (r *PostgresRepo) RemoveCard(ctx context.Context, listID, cardID string) error {
	const query = `DELETE FROM list_cards WHERE list_id = $1 AND card_id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, query, listID, cardID)
	return err
}

func (r *PostgresRepo) Cards(ctx context.Context, listID string) ([]ListCard, error) {
	const query = `
	SELECT lc.card_id, lc.added_at, c.name, c.set_id, s.name, c.rarity, c.image_url
	FROM list_cards lc
	JOIN catalog_cards c ON c.id = lc.card_id
	JOIN catalog_sets s ON s.id = c.set_id
	WHERE lc.list_id = $1
	ORDER BY lc.added_at ASC, lc.card_id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []ListCard
	for rows.Next() {
		var c ListCard
		if err := rows.Scan(
			&c.CardID, &c.AddedAt, &c.CardName, &c.SetID, &c.SetName, &c.Rarity, &c.ImageURL,
		); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
