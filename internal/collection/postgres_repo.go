package collection

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

func (r *PostgresRepo) Add(ctx context.Context, e *Entry) error {
	const query = `
	INSERT INTO collection_entries (id, user_id, card_id, variant, condition, quantity, notes)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, card_id, variant, condition)
	DO UPDATE SET
		quantity = collection_entries.quantity + EXCLUDED.quantity,
		notes = COALESCE(NULLIF(EXCLUDED.notes, ''), collection_entries.notes),
		updated_at = now()
	RETURNING id, quantity, notes, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		e.UserID, e.CardID, e.Variant, e.Condition, e.Quantity, e.Notes,
	).Scan(&e.ID, &e.Quantity, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
}

const entryColumns = `
	e.id, e.card_id, e.variant, e.condition, e.quantity, e.notes,
	e.created_at, e.updated_at,
	c.name, c.set_id, s.name, c.rarity, c.image_url
`

const entryJoins = `
	FROM collection_entries e
	JOIN catalog_cards c ON c.id = e.card_id
	JOIN catalog_sets s ON s.id = c.set_id
`

func scanEntry(row pgx.Row, e *Entry) error {
	return row.Scan(
		&e.ID, &e.CardID, &e.Variant, &e.Condition, &e.Quantity, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
		&e.CardName, &e.SetID, &e.SetName, &e.Rarity, &e.ImageURL,
	)
}

func (r *PostgresRepo) List(ctx context.Context, userID string, q Query) ([]Entry, int, error) {
	clauses := []string{"e.user_id = $1"}
	args := []any{userID}
	argn := 2

	if q.SetID != "" {
		clauses = append(clauses, "c.set_id = $"+strconv.Itoa(argn))
		args = append(args, q.SetID)
		argn++
	}
	if q.Rarity != "" {
		clauses = append(clauses, "c.rarity = $"+strconv.Itoa(argn))
		args = append(args, q.Rarity)
		argn++
	}
	if q.Variant != "" {
		clauses = append(clauses, "e.variant = $"+strconv.Itoa(argn))
		args = append(args, q.Variant)
		argn++
	}
	if q.Condition != "" {
		clauses = append(clauses, "e.condition = $"+strconv.Itoa(argn))
		args = append(args, q.Condition)
		argn++
	}
	if q.Search != "" {
		clauses = append(clauses, "c.name ILIKE $"+strconv.Itoa(argn))
		args = append(args, "%"+q.Search+"%")
		argn++
	}

	where := " WHERE " + strings.Join(clauses, " AND ")

	countQuery := "SELECT COUNT(*)" + entryJoins + where
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataQuery := "SELECT " + entryColumns + entryJoins + where +
		" ORDER BY e.created_at DESC, e.id ASC" +
		" LIMIT $" + strconv.Itoa(argn) + " OFFSET $" + strconv.Itoa(argn+1)
	args = append(args, q.Limit, q.Offset)

	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, 0, err
		}
		e.UserID = userID
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, userID, entryID string) (Entry, error) {
	query := "SELECT " + entryColumns + entryJoins + " WHERE e.user_id = $1 AND e.id = $2 LIMIT 1"
	var e Entry
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := scanEntry(r.db.QueryRow(timeoutCtx, query, userID, entryID), &e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	e.UserID = userID
	return e, nil
}

func (r *PostgresRepo) Update(ctx context.Context, userID, entryID string, patch UpdatePatch) error {
	fields := []string{}
	args := []any{}
	argn := 1

	if patch.Quantity != nil {
		fields = append(fields, "quantity = $"+strconv.Itoa(argn))
		args = append(args, *patch.Quantity)
		argn++
	}
	if patch.Variant != nil {
		fields = append(fields, "variant = $"+strconv.Itoa(argn))
		args = append(args, *patch.Variant)
		argn++
	}
	if patch.Condition != nil {
		fields = append(fields, "condition = $"+strconv.Itoa(argn))
		args = append(args, *patch.Condition)
		argn++
	}
	if patch.Notes != nil {
		fields = append(fields, "notes = $"+strconv.Itoa(argn))
		args = append(args, *patch.Notes)
		argn++
	}

	if len(fields) == 0 {
		return nil
	}

	fields = append(fields, "updated_at = now()")
	args = append(args, userID, entryID)

	query := "UPDATE collection_entries SET " + strings.Join(fields, ", ") +
		" WHERE user_id = $" + strconv.Itoa(argn) + " AND id = $" + strconv.Itoa(argn+1)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, entryID string) error {
	const query = `DELETE FROM collection_entries WHERE user_id = $1 AND id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, userID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *PostgresRepo) All(ctx context.Context, userID string) ([]Entry, error) {
	query := "SELECT " + entryColumns + entryJoins +
		" WHERE e.user_id = $1 ORDER BY s.name ASC, c.name ASC, e.id ASC"
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := scanEntry(rows, &e); err != nil {
			return nil, err
		}
		e.UserID = userID
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepo) Stats(ctx context.Context, userID string) (Stats, error) {
	const totalsQuery = `
	SELECT COUNT(DISTINCT e.card_id), COALESCE(SUM(e.quantity), 0), COUNT(DISTINCT c.set_id)
	FROM collection_entries e
	JOIN catalog_cards c ON c.id = e.card_id
	WHERE e.user_id = $1
	`
	var st Stats
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, totalsQuery, userID).Scan(
		&st.DistinctCards, &st.TotalCopies, &st.SetsRepresented,
	); err != nil {
		return Stats{}, err
	}

	const perSetQuery = `
	SELECT c.set_id, s.name, COUNT(DISTINCT e.card_id), s.total_cards
	FROM collection_entries e
	JOIN catalog_cards c ON c.id = e.card_id
	JOIN catalog_sets s ON s.id = c.set_id
	WHERE e.user_id = $1
	GROUP BY c.set_id, s.name, s.total_cards
	ORDER BY COUNT(DISTINCT e.card_id) DESC, s.name ASC
	`
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, perSetQuery, userID)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var p SetProgress
		if err := rows.Scan(&p.SetID, &p.SetName, &p.Owned, &p.Total); err != nil {
			return Stats{}, err
		}
		st.Sets = append(st.Sets, p)
	}
	return st, rows.Err()
}
