package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const defaultSeedTimeout = 30 * time.Second

// Seeder fills an empty store from the upstream provider before a read is
// served. A populated store is the steady state: the only cost per request
// is one count query. When the store is empty, the first caller performs
// the bulk fetch-and-upsert while concurrent callers wait on the same
// flight and share its outcome, so one process never issues duplicate
// upstream fetches for the same key.
//
// The guard is process-local. Multiple instances may each observe an empty
// store and seed concurrently; the upserts are keyed by upstream ID, so
// racing seeds converge to the same rows instead of conflicting.
//
// A failed seed leaves the store empty and the flight cleared. There is no
// retry here: the next incoming request attempts the seed again.
type Seeder struct {
	store    Store
	provider Provider
	timeout  time.Duration
	group    singleflight.Group
}

// NewSeeder returns a Seeder. timeout bounds each upstream fetch plus its
// upsert; values <= 0 fall back to 30s.
func NewSeeder(store Store, provider Provider, timeout time.Duration) *Seeder {
	if timeout <= 0 {
		timeout = defaultSeedTimeout
	}
	return &Seeder{store: store, provider: provider, timeout: timeout}
}

// EnsureSets guarantees the set table is populated, seeding it from
// upstream when empty. Failures are reported as ErrUpstreamUnavailable,
// ErrUpstreamMalformed, or ErrPersistence, never as a silent empty store.
func (s *Seeder) EnsureSets(ctx context.Context) error {
	n, err := s.store.CountSets(ctx)
	if err != nil {
		return fmt.Errorf("%w: count sets: %v", ErrPersistence, err)
	}
	if n > 0 {
		return nil
	}

	_, err, _ = s.group.Do("sets", func() (any, error) {
		return nil, s.seedSets(ctx)
	})
	return err
}

// EnsureCards guarantees the given set's cards are populated, seeding them
// from upstream when none are stored yet.
func (s *Seeder) EnsureCards(ctx context.Context, setID string) error {
	n, err := s.store.CountCardsBySet(ctx, setID)
	if err != nil {
		return fmt.Errorf("%w: count cards: %v", ErrPersistence, err)
	}
	if n > 0 {
		return nil
	}

	_, err, _ = s.group.Do("cards:"+setID, func() (any, error) {
		return nil, s.seedCards(ctx, setID)
	})
	return err
}

// EnsureCard fetches and stores a single card that a read missed. Returns
// ErrCardNotFound when upstream does not know the ID either.
func (s *Seeder) EnsureCard(ctx context.Context, id string) error {
	_, err, _ := s.group.Do("card:"+id, func() (any, error) {
		sctx, cancel := s.seedContext(ctx)
		defer cancel()

		card, err := s.provider.FetchCard(sctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.store.BulkUpsertCards(sctx, []Card{card}); err != nil {
			return nil, fmt.Errorf("%w: upsert card: %v", ErrPersistence, err)
		}
		return nil, nil
	})
	return err
}

func (s *Seeder) seedSets(ctx context.Context) error {
	sctx, cancel := s.seedContext(ctx)
	defer cancel()

	// A racing caller may have finished seeding between our count and
	// winning the flight.
	n, err := s.store.CountSets(sctx)
	if err != nil {
		return fmt.Errorf("%w: count sets: %v", ErrPersistence, err)
	}
	if n > 0 {
		return nil
	}

	start := time.Now()
	sets, err := s.provider.FetchSets(sctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("set seed failed")
		return err
	}
	if err := s.store.BulkUpsertSets(sctx, sets); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("set seed upsert failed")
		return fmt.Errorf("%w: upsert sets: %v", ErrPersistence, err)
	}

	log.Ctx(ctx).Info().
		Int("sets", len(sets)).
		Dur("took", time.Since(start)).
		Msg("catalog sets seeded")
	return nil
}

func (s *Seeder) seedCards(ctx context.Context, setID string) error {
	sctx, cancel := s.seedContext(ctx)
	defer cancel()

	n, err := s.store.CountCardsBySet(sctx, setID)
	if err != nil {
		return fmt.Errorf("%w: count cards: %v", ErrPersistence, err)
	}
	if n > 0 {
		return nil
	}

	start := time.Now()
	cards, err := s.provider.FetchSetCards(sctx, setID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("set_id", setID).Msg("card seed failed")
		return err
	}
	if err := s.store.BulkUpsertCards(sctx, cards); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("set_id", setID).Msg("card seed upsert failed")
		return fmt.Errorf("%w: upsert cards: %v", ErrPersistence, err)
	}

	log.Ctx(ctx).Info().
		Str("set_id", setID).
		Int("cards", len(cards)).
		Dur("took", time.Since(start)).
		Msg("catalog cards seeded")
	return nil
}

// seedContext detaches the seed from the triggering request's cancellation
// so waiters sharing the flight are not failed by one caller hanging up,
// and bounds the whole fetch-and-upsert with the configured timeout.
func (s *Seeder) seedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}
