package catalog

import (
	"context"
	"errors"
	"fmt"
)

// Service serves catalog reads, seeding the store on first use. Every
// listing calls the seeder first; after the initial seed that check is a
// single count query.
type Service struct {
	store  Store
	seeder *Seeder
}

// NewService creates a new catalog service.
func NewService(store Store, seeder *Seeder) *Service {
	return &Service{store: store, seeder: seeder}
}

// ListSets returns one page of sets matching the query plus the total
// match count. A page past the end of the results is not an error: it
// returns an empty slice with the true total.
func (s *Service) ListSets(ctx context.Context, q SetQuery) ([]Set, int, error) {
	if err := s.seeder.EnsureSets(ctx); err != nil {
		return nil, 0, err
	}

	sets, total, err := s.store.ListSets(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list sets: %v", ErrPersistence, err)
	}
	return sets, total, nil
}

// GetSet returns one set by its upstream ID.
func (s *Service) GetSet(ctx context.Context, id string) (Set, error) {
	if err := s.seeder.EnsureSets(ctx); err != nil {
		return Set{}, err
	}

	set, err := s.store.GetSet(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSetNotFound) {
			return Set{}, err
		}
		return Set{}, fmt.Errorf("%w: get set: %v", ErrPersistence, err)
	}
	return set, nil
}

// ListCards returns one page of a set's cards plus the total match count.
// Returns ErrSetNotFound when the set ID is unknown.
func (s *Service) ListCards(ctx context.Context, setID string, q CardQuery) ([]Card, int, error) {
	if _, err := s.GetSet(ctx, setID); err != nil {
		return nil, 0, err
	}
	if err := s.seeder.EnsureCards(ctx, setID); err != nil {
		return nil, 0, err
	}

	cards, total, err := s.store.ListCards(ctx, setID, q)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list cards: %v", ErrPersistence, err)
	}
	return cards, total, nil
}

// GetCard returns one card by its upstream ID, fetching it from upstream
// on a store miss. Sets are ensured first so the fetched card's parent row
// exists before the card is written.
func (s *Service) GetCard(ctx context.Context, id string) (Card, error) {
	if err := s.seeder.EnsureSets(ctx); err != nil {
		return Card{}, err
	}

	card, err := s.store.GetCard(ctx, id)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, ErrCardNotFound) {
		return Card{}, fmt.Errorf("%w: get card: %v", ErrPersistence, err)
	}

	if err := s.seeder.EnsureCard(ctx, id); err != nil {
		return Card{}, err
	}

	card, err = s.store.GetCard(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return Card{}, err
		}
		return Card{}, fmt.Errorf("%w: get card: %v", ErrPersistence, err)
	}
	return card, nil
}
