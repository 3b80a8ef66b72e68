package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email and a wrong password
// alike, so callers cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service wraps user business rules around the repository.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create hashes the plaintext password and inserts a new user row.
func (s *Service) Create(ctx context.Context, name, email, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.Create(ctx, name, email, string(hash))
}

// List returns all user projections.
func (s *Service) List(ctx context.Context) ([]Profile, error) {
	return s.repo.List(ctx)
}

// Get returns one user projection by id.
func (s *Service) Get(ctx context.Context, id int64) (*Profile, error) {
	return s.repo.Get(ctx, id)
}

// SearchByName returns users whose name contains the given substring.
func (s *Service) SearchByName(ctx context.Context, name string) ([]Profile, error) {
	return s.repo.SearchByName(ctx, name)
}

// Update applies the supplied fields to one user.
func (s *Service) Update(ctx context.Context, id int64, fields UpdateFields) (bool, error) {
	return s.repo.Update(ctx, id, fields)
}

// Delete removes one user by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Authenticate validates email/password credentials and returns the user id.
// Lookup misses and hash mismatches are indistinguishable to the caller;
// verification runs in constant time.
func (s *Service) Authenticate(ctx context.Context, email, password string) (int64, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}
