package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on two connection pools: read runs the
// count/list/get queries on the restricted reader role, service runs the
// bulk upserts on the elevated role. Each bulk upsert is one transaction,
// so a failed seed leaves no partial rows behind.
type PostgresStore struct {
	read    *pgxpool.Pool
	service *pgxpool.Pool
}

func NewPostgresStore(read, service *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{read: read, service: service}
}

func (r *PostgresStore) CountSets(ctx context.Context) (int, error) {
	var count int
	err := r.read.QueryRow(ctx, "SELECT COUNT(*) FROM catalog_sets").Scan(&count)
	return count, err
}

func (r *PostgresStore) CountCardsBySet(ctx context.Context, setID string) (int, error) {
	var count int
	err := r.read.QueryRow(ctx, "SELECT COUNT(*) FROM catalog_cards WHERE set_id = $1", setID).Scan(&count)
	return count, err
}

func (r *PostgresStore) BulkUpsertSets(ctx context.Context, sets []Set) error {
	if len(sets) == 0 {
		return nil
	}

	tx, err := r.service.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const setSQL = `
		INSERT INTO catalog_sets (id, name, series, total_cards, release_date, logo_url, symbol_url, tcg_type, last_synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now(), now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			series = EXCLUDED.series,
			total_cards = EXCLUDED.total_cards,
			release_date = EXCLUDED.release_date,
			logo_url = EXCLUDED.logo_url,
			symbol_url = EXCLUDED.symbol_url,
			tcg_type = EXCLUDED.tcg_type,
			last_synced_at = GREATEST(catalog_sets.last_synced_at, EXCLUDED.last_synced_at),
			updated_at = now()`

	for i := range sets {
		s := &sets[i]
		_, err = tx.Exec(ctx, setSQL, s.ID, s.Name, s.Series, s.TotalCards, s.ReleaseDate, s.LogoURL, s.SymbolURL, s.TCGType)
		if err != nil {
			return fmt.Errorf("upsert set %s: %w", s.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresStore) BulkUpsertCards(ctx context.Context, cards []Card) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := r.service.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const cardSQL = `
		INSERT INTO catalog_cards (id, set_id, local_id, name, category, illustrator, rarity, image_url, last_synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now(), now())
		ON CONFLICT (id) DO UPDATE SET
			set_id = EXCLUDED.set_id,
			local_id = EXCLUDED.local_id,
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			illustrator = EXCLUDED.illustrator,
			rarity = EXCLUDED.rarity,
			image_url = EXCLUDED.image_url,
			last_synced_at = GREATEST(catalog_cards.last_synced_at, EXCLUDED.last_synced_at),
			updated_at = now()`

	for i := range cards {
		c := &cards[i]
		_, err = tx.Exec(ctx, cardSQL, c.ID, c.SetID, c.LocalID, c.Name, c.Category, c.Illustrator, c.Rarity, c.ImageURL)
		if err != nil {
			return fmt.Errorf("upsert card %s: %w", c.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresStore) ListSets(ctx context.Context, q SetQuery) ([]Set, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", argn))
		args = append(args, "%"+q.Search+"%")
		argn++
	}

	if q.Series != "" {
		clauses = append(clauses, fmt.Sprintf("series = $%d", argn))
		args = append(args, q.Series)
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM catalog_sets %s", where)
	var total int
	if err := r.read.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "name"
	switch q.Sort {
	case SetSortReleaseDate:
		orderBy = "release_date"
	case SetSortSeries:
		orderBy = "series"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, name, series, total_cards, release_date, logo_url, symbol_url, tcg_type, last_synced_at, created_at, updated_at
		FROM catalog_sets
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d`,
		where, orderBy, dir, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	rows, err := r.read.Query(ctx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Set{}
	for rows.Next() {
		var s Set
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Series, &s.TotalCards, &s.ReleaseDate,
			&s.LogoURL, &s.SymbolURL, &s.TCGType, &s.LastSyncedAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

func (r *PostgresStore) GetSet(ctx context.Context, id string) (Set, error) {
	const query = `
		SELECT id, name, series, total_cards, release_date, logo_url, symbol_url, tcg_type, last_synced_at, created_at, updated_at
		FROM catalog_sets
		WHERE id = $1
	`
	var s Set
	err := r.read.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Series, &s.TotalCards, &s.ReleaseDate,
		&s.LogoURL, &s.SymbolURL, &s.TCGType, &s.LastSyncedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Set{}, ErrSetNotFound
		}
		return Set{}, err
	}
	return s, nil
}

func (r *PostgresStore) ListCards(ctx context.Context, setID string, q CardQuery) ([]Card, int, error) {
	clauses := []string{"set_id = $1"}
	args := []any{setID}
	argn := 2

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", argn))
		args = append(args, "%"+q.Search+"%")
		argn++
	}

	if q.Rarity != "" {
		clauses = append(clauses, fmt.Sprintf("rarity = $%d", argn))
		args = append(args, q.Rarity)
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM catalog_cards %s", where)
	var total int
	if err := r.read.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := "name"
	if q.Sort == CardSortLocalID {
		orderBy = "local_id"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	dataSQL := fmt.Sprintf(`
		SELECT id, set_id, local_id, name, category, illustrator, rarity, image_url, last_synced_at, created_at, updated_at
		FROM catalog_cards
		%s
		ORDER BY %s %s, id ASC
		LIMIT $%d OFFSET $%d`,
		where, orderBy, dir, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	rows, err := r.read.Query(ctx, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Card{}
	for rows.Next() {
		var c Card
		if err := rows.Scan(
			&c.ID, &c.SetID, &c.LocalID, &c.Name, &c.Category,
			&c.Illustrator, &c.Rarity, &c.ImageURL, &c.LastSyncedAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *PostgresStore) GetCard(ctx context.Context, id string) (Card, error) {
	const query = `
		SELECT id, set_id, local_id, name, category, illustrator, rarity, image_url, last_synced_at, created_at, updated_at
		FROM catalog_cards
		WHERE id = $1
	`
	var c Card
	err := r.read.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.SetID, &c.LocalID, &c.Name, &c.Category,
		&c.Illustrator, &c.Rarity, &c.ImageURL, &c.LastSyncedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Card{}, ErrCardNotFound
		}
		return Card{}, err
	}
	return c, nil
}
