package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with the same filter, sort, and paging
// semantics as the SQL implementation.
type memStore struct {
	mu    sync.Mutex
	sets  map[string]Set
	cards map[string]Card
}

func newMemStore() *memStore {
	return &memStore{
		sets:  make(map[string]Set),
		cards: make(map[string]Card),
	}
}

func (m *memStore) CountSets(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sets), nil
}

func (m *memStore) BulkUpsertSets(ctx context.Context, sets []Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, s := range sets {
		if prev, ok := m.sets[s.ID]; ok && prev.LastSyncedAt.After(now) {
			s.LastSyncedAt = prev.LastSyncedAt
		} else {
			s.LastSyncedAt = now
		}
		m.sets[s.ID] = s
	}
	return nil
}

func (m *memStore) ListSets(ctx context.Context, q SetQuery) ([]Set, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []Set{}
	for _, s := range m.sets {
		if q.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.Series != "" && s.Series != q.Series {
			continue
		}
		matched = append(matched, s)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		switch q.Sort {
		case SetSortReleaseDate:
			if a.ReleaseDate != b.ReleaseDate {
				less = a.ReleaseDate < b.ReleaseDate
			} else {
				return a.ID < b.ID
			}
		case SetSortSeries:
			if a.Series != b.Series {
				less = a.Series < b.Series
			} else {
				return a.ID < b.ID
			}
		default:
			if a.Name != b.Name {
				less = a.Name < b.Name
			} else {
				return a.ID < b.ID
			}
		}
		if q.Desc {
			return !less
		}
		return less
	})

	total := len(matched)
	if q.Offset >= total {
		return []Set{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func (m *memStore) GetSet(ctx context.Context, id string) (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[id]
	if !ok {
		return Set{}, ErrSetNotFound
	}
	return s, nil
}

func (m *memStore) CountCardsBySet(ctx context.Context, setID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.cards {
		if c.SetID == setID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) BulkUpsertCards(ctx context.Context, cards []Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, c := range cards {
		c.LastSyncedAt = now
		m.cards[c.ID] = c
	}
	return nil
}

func (m *memStore) ListCards(ctx context.Context, setID string, q CardQuery) ([]Card, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []Card{}
	for _, c := range m.cards {
		if c.SetID != setID {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.Rarity != "" && c.Rarity != q.Rarity {
			continue
		}
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less bool
		if q.Sort == CardSortLocalID {
			if a.LocalID != b.LocalID {
				less = a.LocalID < b.LocalID
			} else {
				return a.ID < b.ID
			}
		} else {
			if a.Name != b.Name {
				less = a.Name < b.Name
			} else {
				return a.ID < b.ID
			}
		}
		if q.Desc {
			return !less
		}
		return less
	})

	total := len(matched)
	if q.Offset >= total {
		return []Card{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Offset:end], total, nil
}

func (m *memStore) GetCard(ctx context.Context, id string) (Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok {
		return Card{}, ErrCardNotFound
	}
	return c, nil
}

// staticProvider returns fixed payloads.
type staticProvider struct {
	sets      []Set
	cards     map[string][]Card
	cardsByID map[string]Card
	err       error

	mu         sync.Mutex
	setFetches int
}

func (p *staticProvider) FetchSets(ctx context.Context) ([]Set, error) {
	p.mu.Lock()
	p.setFetches++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.sets, nil
}

func (p *staticProvider) FetchSetCards(ctx context.Context, setID string) ([]Card, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.cards[setID], nil
}

func (p *staticProvider) FetchCard(ctx context.Context, id string) (Card, error) {
	if p.err != nil {
		return Card{}, p.err
	}
	c, ok := p.cardsByID[id]
	if !ok {
		return Card{}, ErrCardNotFound
	}
	return c, nil
}

func (p *staticProvider) fetchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setFetches
}

func newTestService(store Store, provider Provider) *Service {
	return NewService(store, NewSeeder(store, provider, time.Second))
}

func TestService_ListSets_ColdStoreSeedsThenPages(t *testing.T) {
	ctx := context.Background()

	sets := make([]Set, 0, 150)
	for i := 0; i < 150; i++ {
		sets = append(sets, Set{
			ID:      fmt.Sprintf("set%03d", i),
			Name:    fmt.Sprintf("Set %03d", i),
			TCGType: TCGTypePokemon,
		})
	}
	provider := &staticProvider{sets: sets}
	store := newMemStore()
	svc := newTestService(store, provider)

	items, total, err := svc.ListSets(ctx, SetQuery{Sort: SetSortName, Limit: 20, Offset: 0})
	require.NoError(t, err)

	assert.Equal(t, 150, total)
	require.Len(t, items, 20)
	for i, s := range items {
		assert.Equal(t, fmt.Sprintf("Set %03d", i), s.Name)
	}
	assert.Equal(t, 1, provider.fetchCount())

	// Steady state: no further upstream fetches.
	_, _, err = svc.ListSets(ctx, SetQuery{Sort: SetSortName, Limit: 20, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.fetchCount())
}

func TestService_ListSets_SearchMatchesSubstringCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{sets: []Set{
		{ID: "sv08", Name: "Surging Sparks"},
		{ID: "tef", Name: "Temporal Forces"},
	}}
	svc := newTestService(newMemStore(), provider)

	items, total, err := svc.ListSets(ctx, SetQuery{Search: "surging", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Surging Sparks", items[0].Name)
}

func TestService_ListSets_SeriesExactMatch(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{sets: []Set{
		{ID: "sv08", Name: "Surging Sparks", Series: "Scarlet & Violet"},
		{ID: "swsh3", Name: "Darkness Ablaze", Series: "Sword & Shield"},
	}}
	svc := newTestService(newMemStore(), provider)

	items, total, err := svc.ListSets(ctx, SetQuery{Series: "Sword & Shield", Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "swsh3", items[0].ID)

	// Substring of a series is not a match.
	_, total, err = svc.ListSets(ctx, SetQuery{Series: "Sword", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestService_ListSets_PageBeyondEndIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	sets := make([]Set, 0, 10)
	for i := 0; i < 10; i++ {
		sets = append(sets, Set{ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("Set %d", i)})
	}
	provider := &staticProvider{sets: sets}
	svc := newTestService(newMemStore(), provider)

	// page=5, limit=20.
	items, total, err := svc.ListSets(ctx, SetQuery{Limit: 20, Offset: 80})
	require.NoError(t, err)

	assert.Empty(t, items)
	assert.Equal(t, 10, total)
}

func TestService_ListSets_SortOrders(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{sets: []Set{
		{ID: "a", Name: "Alpha", Series: "S2", ReleaseDate: "2023-05-01"},
		{ID: "b", Name: "Beta", Series: "S1", ReleaseDate: "2021-02-10"},
		{ID: "c", Name: "Gamma", Series: "S1", ReleaseDate: "2022-11-30"},
	}}
	svc := newTestService(newMemStore(), provider)

	items, _, err := svc.ListSets(ctx, SetQuery{Sort: SetSortReleaseDate, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{items[0].ID, items[1].ID, items[2].ID})

	items, _, err = svc.ListSets(ctx, SetQuery{Sort: SetSortName, Desc: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "Gamma", items[0].Name)

	items, _, err = svc.ListSets(ctx, SetQuery{Sort: SetSortSeries, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "S1", items[0].Series)
}

func TestService_ListSets_SeedFailureIsNotEmptySuccess(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{err: fmt.Errorf("%w: status 503", ErrUpstreamUnavailable)}
	svc := newTestService(newMemStore(), provider)

	_, _, err := svc.ListSets(ctx, SetQuery{Limit: 20})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestService_GetSet(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{sets: []Set{{ID: "sv08", Name: "Surging Sparks"}}}
	svc := newTestService(newMemStore(), provider)

	set, err := svc.GetSet(ctx, "sv08")
	require.NoError(t, err)
	assert.Equal(t, "Surging Sparks", set.Name)

	_, err = svc.GetSet(ctx, "missing")
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestService_ListCards_SeedsPerSet(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{
		sets: []Set{{ID: "sv08", Name: "Surging Sparks"}},
		cards: map[string][]Card{
			"sv08": {
				{ID: "sv08-238", SetID: "sv08", LocalID: "238", Name: "Pikachu ex", Rarity: "Double rare"},
				{ID: "sv08-001", SetID: "sv08", LocalID: "1", Name: "Exeggcute", Rarity: "Common"},
			},
		},
	}
	svc := newTestService(newMemStore(), provider)

	cards, total, err := svc.ListCards(ctx, "sv08", CardQuery{Sort: CardSortName, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, cards, 2)
	assert.Equal(t, "Exeggcute", cards[0].Name)

	cards, total, err = svc.ListCards(ctx, "sv08", CardQuery{Rarity: "Common", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Exeggcute", cards[0].Name)
}

func TestService_ListCards_UnknownSet(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{sets: []Set{{ID: "sv08", Name: "Surging Sparks"}}}
	svc := newTestService(newMemStore(), provider)

	_, _, err := svc.ListCards(ctx, "nope", CardQuery{Limit: 20})
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestService_GetCard_FetchesOnMiss(t *testing.T) {
	ctx := context.Background()
	card := Card{ID: "sv08-238", SetID: "sv08", Name: "Pikachu ex"}
	provider := &staticProvider{
		sets:      []Set{{ID: "sv08", Name: "Surging Sparks"}},
		cardsByID: map[string]Card{"sv08-238": card},
	}
	store := newMemStore()
	svc := newTestService(store, provider)

	got, err := svc.GetCard(ctx, "sv08-238")
	require.NoError(t, err)
	assert.Equal(t, "Pikachu ex", got.Name)

	// Now present in the store.
	n, err := store.CountCardsBySet(ctx, "sv08")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestService_GetCard_UnknownEverywhere(t *testing.T) {
	ctx := context.Background()
	provider := &staticProvider{
		sets:      []Set{{ID: "sv08", Name: "Surging Sparks"}},
		cardsByID: map[string]Card{},
	}
	svc := newTestService(newMemStore(), provider)

	_, err := svc.GetCard(ctx, "nope-99")
	assert.ErrorIs(t, err, ErrCardNotFound)
}
