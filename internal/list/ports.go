package list

import (
	"context"

	"tcgcollectr/internal/catalog"
)

type Repository interface {
	Create(ctx context.Context, l *List) error
	ListByUser(ctx context.Context, userID string) ([]List, error)
	GetByID(ctx context.Context, listID string) (List, error)
	Update(ctx context.Context, userID, listID string, patch UpdatePatch) error
	Delete(ctx context.Context, userID, listID string) error
	// AddCard is idempotent: adding a card that is already on the list
	// succeeds without duplicating it.
	AddCard(ctx context.Context, listID, cardID string) error
	RemoveCard(ctx context.Context, listID, cardID string) error
	Cards(ctx context.Context, listID string) ([]ListCard, error)
}

type CardCatalog interface {
	GetCard(ctx context.Context, id string) (catalog.Card, error)
}
