package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, username, email, password string, role Role) (*User, error)
	Login(ctx context.Context, username, password string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register creates a new account. Duplicate username or email is detected
// before any write; the password is stored bcrypt-hashed.
func (s *service) Register(ctx context.Context, username, email, password string, role Role) (*User, error) {
	if role == "" {
		role = RoleUser
	}

	taken, err := s.repo.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("service: failed to check registration uniqueness")
		return nil, fmt.Errorf("service: failed to check registration uniqueness: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("service: failed to hash password: %w", err)
	}

	u := &User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if _, err := s.repo.Create(ctx, u); err != nil {
		log.Error().Err(err).Str("username", username).Msg("service: failed to create user")
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("User registered")
	return u, nil
}

// Login verifies the credentials and returns the account. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("service: failed to fetch user for login")
		return nil, fmt.Errorf("service: failed to fetch user for login: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
