// Package accounts implements admin-only account management: creating,
// listing and deactivating clinic staff accounts. Accounts are never
// deleted, only deactivated, and the last active admin cannot be removed.
package accounts

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vkazarin/clinicdesk/internal/domain"
)

// Service implements account management business logic.
type Service struct {
	repo Repository
}

// NewService creates a new accounts service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateUserInput holds data for creating a user account.
type CreateUserInput struct {
	Username    string
	DisplayName string
	Password    string
	Role        domain.Role
}

// CreateUser creates a new active account with a bcrypt-hashed credential.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if !input.Role.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers returns all accounts, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns the account with the given id.
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// DeactivateUser marks an account inactive. Fails with ErrLastAdmin if the
// account is the only remaining active admin; the check runs inside the
// repository transaction so concurrent deactivations cannot race past it.
func (s *Service) DeactivateUser(ctx context.Context, id string) error {
	return s.repo.DeactivateUser(ctx, id)
}

// ActivateUser re-enables a deactivated account.
func (s *Service) ActivateUser(ctx context.Context, id string) error {
	return s.repo.ActivateUser(ctx, id)
}

// ChangeRole updates an account's role. Demoting the last active admin
// fails with ErrLastAdmin under the same transactional guard as
// deactivation.
func (s *Service) ChangeRole(ctx context.Context, id string, role domain.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	return s.repo.UpdateUserRole(ctx, id, role)
}
