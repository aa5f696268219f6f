package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu     sync.Mutex
	seq    int
	events []Event
	err    error
}

func (r *memRepo) Insert(ctx context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.seq++
	e.ID = fmt.Sprintf("evt-%d", r.seq)
	r.events = append(r.events, *e)
	return nil
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := NewService(repo)

	err := svc.Record(ctx, "user-1", "card_viewed", json.RawMessage(`{"card_id": "sv08-238"}`))
	require.NoError(t, err)
	require.Len(t, repo.events, 1)
	assert.Equal(t, "user-1", repo.events[0].UserID)
	assert.Equal(t, "card_viewed", repo.events[0].Type)

	t.Run("anonymous event", func(t *testing.T) {
		err := svc.Record(ctx, "", "search_performed", json.RawMessage(`{"q": "pikachu"}`))
		require.NoError(t, err)
		assert.Empty(t, repo.events[len(repo.events)-1].UserID)
	})

	t.Run("nil payload", func(t *testing.T) {
		assert.NoError(t, svc.Record(ctx, "user-1", "export_requested", nil))
	})

	t.Run("unknown type", func(t *testing.T) {
		err := svc.Record(ctx, "user-1", "page_scrolled", nil)
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("oversized payload", func(t *testing.T) {
		big := append([]byte(`{"blob": "`), bytes.Repeat([]byte("x"), MaxPayloadBytes)...)
		big = append(big, []byte(`"}`)...)
		err := svc.Record(ctx, "user-1", "card_viewed", big)
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
	})

	t.Run("garbage payload", func(t *testing.T) {
		err := svc.Record(ctx, "user-1", "card_viewed", json.RawMessage(`{broken`))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}
