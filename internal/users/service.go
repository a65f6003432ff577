package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Service encapsulates account business logic: signup, login, lookup, and
// direct password reset (no mail loop in this system).
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Signup registers a new account with a bcrypt-hashed password. Role defaults
// to "user" when empty.
func (s *Service) Signup(ctx context.Context, username, email, password, role string) (*User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = "user"
	}
	u := &User{Username: username, Email: email, PasswordHash: string(hash), Role: role}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns the account.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Find returns the account for a username, or ErrUnknownUser.
func (s *Service) Find(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnknownUser
	}
	return u, nil
}

// ResetPassword replaces the stored hash for an existing account.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidCredentials
	}
	if _, err := s.Find(ctx, username); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, username, string(hash))
}
