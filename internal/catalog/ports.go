package catalog

import (
	"context"
)

// Store is the persistence contract for catalog reference data. List and
// Get methods run on the restricted read credential; the bulk upserts run
// on the elevated service credential and must be atomic: either every row
// in the batch lands or none do.
type Store interface {
	CountSets(ctx context.Context) (int, error)
	ListSets(ctx context.Context, q SetQuery) ([]Set, int, error)
	GetSet(ctx context.Context, id string) (Set, error)
	BulkUpsertSets(ctx context.Context, sets []Set) error

	CountCardsBySet(ctx context.Context, setID string) (int, error)
	ListCards(ctx context.Context, setID string, q CardQuery) ([]Card, int, error)
	GetCard(ctx context.Context, id string) (Card, error)
	BulkUpsertCards(ctx context.Context, cards []Card) error
}

// Provider fetches reference data from the upstream catalog API.
// Implementations report failures wrapped in ErrUpstreamUnavailable
// (network error, non-2xx status) or ErrUpstreamMalformed (payload not the
// expected shape), and FetchCard wraps an upstream 404 in ErrCardNotFound.
type Provider interface {
	FetchSets(ctx context.Context) ([]Set, error)
	FetchSetCards(ctx context.Context, setID string) ([]Card, error)
	FetchCard(ctx context.Context, id string) (Card, error)
}
