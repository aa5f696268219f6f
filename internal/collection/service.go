package collection

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

type Service struct {
	repo    Repository
	catalog CardCatalog
}

func NewService(repo Repository, cardCatalog CardCatalog) *Service {
	return &Service{repo: repo, catalog: cardCatalog}
}

// Add records copies of a card. The card id is resolved against the
// catalog first, which seeds it on demand; an id the upstream does not
// know either is a not-found, never a free-form row.
func (s *Service) Add(ctx context.Context, userID, cardID string, quantity int, variant, condition, notes string) (Entry, error) {
	if quantity < 1 {
		return Entry{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if err := ValidateVariant(variant); err != nil {
		return Entry{}, err
	}
	if err := ValidateCondition(condition); err != nil {
		return Entry{}, err
	}

	if _, err := s.catalog.GetCard(ctx, cardID); err != nil {
		return Entry{}, err
	}

	e := &Entry{
		UserID:    userID,
		CardID:    cardID,
		Variant:   variant,
		Condition: condition,
		Quantity:  quantity,
		Notes:     notes,
	}
	if err := s.repo.Add(ctx, e); err != nil {
		return Entry{}, err
	}

	// Re-read so the response carries the joined catalog fields and the
	// summed quantity when the row already existed.
	return s.repo.Get(ctx, userID, e.ID)
}

func (s *Service) List(ctx context.Context, userID string, q Query) ([]Entry, int, error) {
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.repo.List(ctx, userID, q)
}

func (s *Service) Update(ctx context.Context, userID, entryID string, patch UpdatePatch) (Entry, error) {
	if patch.Quantity != nil && *patch.Quantity < 1 {
		return Entry{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if patch.Variant != nil {
		if err := ValidateVariant(*patch.Variant); err != nil {
			return Entry{}, err
		}
	}
	if patch.Condition != nil {
		if err := ValidateCondition(*patch.Condition); err != nil {
			return Entry{}, err
		}
	}

	if err := s.repo.Update(ctx, userID, entryID, patch); err != nil {
		return Entry{}, err
	}
	return s.repo.Get(ctx, userID, entryID)
}

func (s *Service) Delete(ctx context.Context, userID, entryID string) error {
	return s.repo.Delete(ctx, userID, entryID)
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	return s.repo.Stats(ctx, userID)
}

var exportHeader = []string{
	"card_id", "card_name", "set_id", "set_name", "rarity",
	"variant", "condition", "quantity", "notes", "added_at",
}

// ExportCSV streams the whole collection as CSV, one line per entry.
func (s *Service) ExportCSV(ctx context.Context, userID string, w io.Writer) error {
	entries, err := s.repo.All(ctx, userID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		record := []string{
			e.CardID, e.CardName, e.SetID, e.SetName, e.Rarity,
			e.Variant, e.Condition, strconv.Itoa(e.Quantity), e.Notes,
			e.CreatedAt.Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
