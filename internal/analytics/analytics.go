// Package analytics ingests client events into an append-only table.
// Events are write-only from the API's point of view; reading them is a
// job for offline tooling against the database directly.
package analytics

import (
	"encoding/json"
	"errors"
	"time"
)

// MaxPayloadBytes caps the JSON payload stored per event.
const MaxPayloadBytes = 4096

var (
	ErrUnknownType     = errors.New("unknown event type")
	ErrPayloadTooLarge = errors.New("event payload too large")
	ErrInvalidPayload  = errors.New("event payload is not valid JSON")
)

// allowedTypes is the full vocabulary clients may emit. Anything else is
// rejected so the table stays queryable.
var allowedTypes = map[string]struct{}{
	"card_viewed":        {},
	"set_viewed":         {},
	"search_performed":   {},
	"collection_updated": {},
	"list_shared":        {},
	"export_requested":   {},
}

type Event struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
