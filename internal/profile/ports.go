package profile

import (
	"context"

	"tcgcollectr/internal/auth"
	"tcgcollectr/internal/collection"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (auth.User, error)
	GetByUsername(ctx context.Context, username string) (auth.User, error)
	UpdateProfile(ctx context.Context, userID string, updates map[string]any) error
}

type StatsProvider interface {
	Stats(ctx context.Context, userID string) (collection.Stats, error)
}
