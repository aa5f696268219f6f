// Package collection tracks which cards a user owns: one entry per
// (card, variant, condition) with a copy count. The catalog is the source
// of truth for card identity; entries never reference cards the catalog
// does not know.
package collection

import (
	"errors"
	"fmt"
	"time"
)

const (
	VariantNormal  = "normal"
	VariantHolo    = "holo"
	VariantReverse = "reverse"
)

const (
	ConditionNearMint     = "NM"
	ConditionLightPlay    = "LP"
	ConditionModeratePlay = "MP"
	ConditionHeavyPlay    = "HP"
	ConditionDamaged      = "DMG"
)

var (
	ErrEntryNotFound = errors.New("collection entry not found")
	// ErrInvalidInput marks values that fail domain validation.
	ErrInvalidInput = errors.New("invalid input")
)

func ValidateVariant(v string) error {
	switch v {
	case VariantNormal, VariantHolo, VariantReverse:
		return nil
	default:
		return fmt.Errorf("%w: variant %s", ErrInvalidInput, v)
	}
}

func ValidateCondition(c string) error {
	switch c {
	case ConditionNearMint, ConditionLightPlay, ConditionModeratePlay, ConditionHeavyPlay, ConditionDamaged:
		return nil
	default:
		return fmt.Errorf("%w: condition %s", ErrInvalidInput, c)
	}
}

type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	CardID    string    `json:"card_id"`
	Variant   string    `json:"variant"`
	Condition string    `json:"condition"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined catalog fields, populated on list and export reads.
	CardName string `json:"card_name,omitempty"`
	SetID    string `json:"set_id,omitempty"`
	SetName  string `json:"set_name,omitempty"`
	Rarity   string `json:"rarity,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type Query struct {
	SetID     string
	Rarity    string
	Variant   string
	Condition string
	Search    string
	Limit     int
	Offset    int
}

// UpdatePatch carries the mutable entry fields; nil means leave unchanged.
type UpdatePatch struct {
	Quantity  *int
	Variant   *string
	Condition *string
	Notes     *string
}

type SetProgress struct {
	SetID   string `json:"set_id"`
	SetName string `json:"set_name"`
	Owned   int    `json:"owned"`
	Total   int    `json:"total"`
}

type Stats struct {
	DistinctCards   int           `json:"distinct_cards"`
	TotalCopies     int           `json:"total_copies"`
	SetsRepresented int           `json:"sets_represented"`
	Sets            []SetProgress `json:"sets"`
}
