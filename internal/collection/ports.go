package collection

import (
	"context"

	"tcgcollectr/internal/catalog"
)

type Repository interface {
	// Add inserts the entry or, when the (user, card, variant, condition)
	// row already exists, adds the quantity onto it.
	Add(ctx context.Context, e *Entry) error
	List(ctx context.Context, userID string, q Query) ([]Entry, int, error)
	Get(ctx context.Context, userID, entryID string) (Entry, error)
	Update(ctx context.Context, userID, entryID string, patch UpdatePatch) error
	Delete(ctx context.Context, userID, entryID string) error
	// All returns every entry with joined catalog fields, for export.
	All(ctx context.Context, userID string) ([]Entry, error)
	Stats(ctx context.Context, userID string) (Stats, error)
}

// CardCatalog is the slice of the catalog the collection needs: resolving
// a card id, seeding it on demand if the store is cold.
type CardCatalog interface {
	GetCard(ctx context.Context, id string) (catalog.Card, error)
}
