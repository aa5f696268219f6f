package list

import (
	"context"
	"fmt"
	"strings"
)

const maxNameLength = 120

type Service struct {
	repo    Repository
	catalog CardCatalog
}

func NewService(repo Repository, cardCatalog CardCatalog) *Service {
	return &Service{repo: repo, catalog: cardCatalog}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: list name must not be empty", ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: list name must be at most %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID, name, description string, isPublic bool) (List, error) {
	if err := validateName(name); err != nil {
		return List{}, err
	}
	l := &List{
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: description,
		IsPublic:    isPublic,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return List{}, err
	}
	return *l, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]List, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a list with its cards. A private list behaves as missing
// for everyone but its owner.
func (s *Service) Get(ctx context.Context, viewerID, listID string) (List, []ListCard, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return List{}, nil, err
	}
	if !l.IsPublic && l.UserID != viewerID {
		return List{}, nil, ErrListNotFound
	}

	cards, err := s.repo.Cards(ctx, listID)
	if err != nil {
		return List{}, nil, err
	}
	l.CardCount = len(cards)
	return l, cards, nil
}

func (s *Service) Update(ctx context.Context, userID, listID string, patch UpdatePatch) (List, error) {
	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return List{}, err
		}
	}
	if err := s.repo.Update(ctx, userID, listID, patch); err != nil {
		return List{}, err
	}
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return List{}, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, userID, listID string) error {
	return s.repo.Delete(ctx, userID, listID)
}

// AddCard puts a card on the owner's list, resolving it against the
// catalog first. Re-adding a card the list already holds is a no-op.
func (s *Service) AddCard(ctx context.Context, userID, listID, cardID string) error {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return ErrListNotFound
	}

	if _, err := s.catalog.GetCard(ctx, cardID); err != nil {
		return err
	}
	return s.repo.AddCard(ctx, listID, cardID)
}

func (s *Service) RemoveCard(ctx context.Context, userID, listID, cardID string) error {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return ErrListNotFound
	}
	return s.repo.RemoveCard(ctx, listID, cardID)
}
