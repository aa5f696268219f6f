package profile

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"tcgcollectr/internal/auth"
)

type Service struct {
	users       UserDirectory
	collections StatsProvider
}

func NewService(users UserDirectory, collections StatsProvider) *Service {
	return &Service{users: users, collections: collections}
}

func (s *Service) GetOwnProfile(ctx context.Context, userID string) (Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return s.assemble(ctx, u)
}

// GetPublicProfile resolves a profile by username. A hidden profile is
// indistinguishable from a missing one.
func (s *Service) GetPublicProfile(ctx context.Context, username string) (Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return Profile{}, err
	}

	if !u.IsPublic {
		return Profile{}, auth.ErrNotFound
	}

	return s.assemble(ctx, u)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, cmd UpdateCommand) (Profile, error) {
	updates := cmd.ToMap()

	if displayName, ok := updates["display_name"].(string); ok {
		updates["display_name"] = strings.TrimSpace(displayName)
	}

	if avatarURL, ok := updates["avatar_url"].(string); ok && avatarURL != "" {
		if _, err := url.ParseRequestURI(avatarURL); err != nil {
			return Profile{}, fmt.Errorf("%w: avatar URL is not a valid URI", ErrInvalidInput)
		}
	}

	if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
		return Profile{}, err
	}

	return s.GetOwnProfile(ctx, userID)
}

func (s *Service) assemble(ctx context.Context, u auth.User) (Profile, error) {
	stats, err := s.collections.Stats(ctx, u.ID)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		User: View{
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Bio:         u.Bio,
			AvatarURL:   u.AvatarURL,
			IsPublic:    u.IsPublic,
			JoinedAt:    u.CreatedAt,
		},
		Stats: stats,
	}, nil
}
