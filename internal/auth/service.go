package auth

import (
	"context"
	"time"

	"tcgcollectr/internal/platform/crypto"
)

type Service struct {
	secret    string
	tokenTTL  time.Duration
	users     UserRepository
	blacklist BlacklistRepository
}

func NewService(secret string, tokenTTL time.Duration, users UserRepository, blacklist BlacklistRepository) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		secret:    secret,
		tokenTTL:  tokenTTL,
		users:     users,
		blacklist: blacklist,
	}
}

func (s *Service) Register(ctx context.Context, email, username, hashedPassword string) (User, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return User{}, ErrAlreadyExists
	}

	newUser := &User{
		Email:    email,
		Username: username,
		Password: hashedPassword,
		Role:     RoleUser,
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		return User{}, err
	}

	return *newUser, nil
}

// Login verifies credentials and issues an access token. Bad email and bad
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, int, User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !crypto.VerifyPassword(u.Password, password) {
		return "", 0, User{}, ErrUnauthorized
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, u.Role, s.tokenTTL)
	if err != nil {
		return "", 0, User{}, err
	}

	return token, int(s.tokenTTL.Seconds()), u, nil
}

// Logout blacklists the token's jti until the token would have expired
// anyway, so the blacklist never grows without bound.
func (s *Service) Logout(ctx context.Context, token, userID string) error {
	claims, err := crypto.ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.blacklist.AddToken(ctx, claims.ID, userID, expiresAt)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, updates map[string]any) error {
	return s.users.UpdateProfile(ctx, userID, updates)
}
