// Package list implements user-curated card lists: wish lists, trade
// lists, deck ideas. Lists can be public, in which case anyone may read
// them; a private list is invisible to everyone but its owner.
package list

import (
	"errors"
	"time"
)

var (
	ErrListNotFound = errors.New("list not found")
	// ErrInvalidInput marks values that fail domain validation.
	ErrInvalidInput = errors.New("invalid input")
)

type List struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CardCount   int       `json:"card_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListCard struct {
	CardID  string    `json:"card_id"`
	AddedAt time.Time `json:"added_at"`

	CardName string `json:"card_name,omitempty"`
	SetID    string `json:"set_id,omitempty"`
	SetName  string `json:"set_name,omitempty"`
	Rarity   string `json:"rarity,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// UpdatePatch carries the mutable list fields; nil means leave unchanged.
type UpdatePatch struct {
	Name        *string
	Description *string
	IsPublic    *bool
}
