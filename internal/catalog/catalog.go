// Package catalog holds the reference data for Pokémon TCG sets and cards.
// The store is never written by hand: every row originates from a
// successful upstream fetch, seeded on first read.
package catalog

import (
	"errors"
	"time"
)

var (
	// ErrSetNotFound is returned when a set is not in the store.
	ErrSetNotFound = errors.New("set not found")
	// ErrCardNotFound is returned when a card is not in the store or upstream.
	ErrCardNotFound = errors.New("card not found")

	// ErrUpstreamUnavailable is returned when the upstream provider cannot
	// be reached or answers with a non-success status.
	ErrUpstreamUnavailable = errors.New("upstream catalog unavailable")
	// ErrUpstreamMalformed is returned when the upstream payload does not
	// match the expected shape.
	ErrUpstreamMalformed = errors.New("upstream catalog payload malformed")
	// ErrPersistence is returned when the store rejects a read or write.
	ErrPersistence = errors.New("catalog persistence failure")
)

// TCGTypePokemon tags rows for the one supported game. Kept as a column so
// the catalog can grow to other games without a schema change.
const TCGTypePokemon = "pokemon"

// Set is a released TCG expansion.
type Set struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Series       string    `json:"series,omitempty"`
	TotalCards   int       `json:"total_cards"`
	ReleaseDate  string    `json:"release_date,omitempty"`
	LogoURL      string    `json:"logo_url,omitempty"`
	SymbolURL    string    `json:"symbol_url,omitempty"`
	TCGType      string    `json:"tcg_type"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Card is a single printing within a set.
type Card struct {
	ID           string    `json:"id"`
	SetID        string    `json:"set_id"`
	LocalID      string    `json:"local_id,omitempty"`
	Name         string    `json:"name"`
	Category     string    `json:"category,omitempty"`
	Illustrator  string    `json:"illustrator,omitempty"`
	Rarity       string    `json:"rarity,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sort fields accepted for set listings. Values match the public API.
const (
	SetSortName        = "name"
	SetSortReleaseDate = "releaseDate"
	SetSortSeries      = "series"
)

// Sort fields accepted for card listings.
const (
	CardSortName    = "name"
	CardSortLocalID = "localId"
)

// SetQuery defines filters, sort, and a page window for listing sets.
// Search matches a case-insensitive substring of the set name; Series is
// an exact match.
type SetQuery struct {
	Search string
	Series string
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

// CardQuery defines filters, sort, and a page window for listing the cards
// of one set.
type CardQuery struct {
	Search string
	Rarity string
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}
