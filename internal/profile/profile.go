// Package profile exposes user-facing collector profiles: a public view
// keyed by username and a PATCH surface for the owner. Collection stats
// are embedded so a profile page needs a single request.
package profile

import (
	"errors"
	"time"

	"tcgcollectr/internal/collection"
)

// ErrInvalidInput marks values that fail domain validation.
var ErrInvalidInput = errors.New("invalid input")

// View is the profile shape shared with other users. It deliberately
// carries no email or role.
type View struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	JoinedAt    time.Time `json:"joined_at"`
}

type Profile struct {
	User  View             `json:"user"`
	Stats collection.Stats `json:"stats"`
}

type UpdateCommand struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=80"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,max=500"`
	IsPublic    *bool   `json:"is_public"`
}

func (c *UpdateCommand) ToMap() map[string]any {
	updates := make(map[string]any)
	if c.DisplayName != nil {
		updates["display_name"] = *c.DisplayName
	}
	if c.Bio != nil {
		updates["bio"] = *c.Bio
	}
	if c.AvatarURL != nil {
		updates["avatar_url"] = *c.AvatarURL
	}
	if c.IsPublic != nil {
		updates["is_public"] = *c.IsPublic
	}
	return updates
}
