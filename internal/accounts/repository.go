package accounts

import (
	"context"

	"github.com/vkazarin/clinicdesk/internal/domain"
)

// Repository defines the data operations for account management.
//
// DeactivateUser and UpdateUserRole enforce the last-admin invariant
// inside a single transaction: implementations must guarantee that
// concurrent calls can never leave the system without an active admin.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeactivateUser(ctx context.Context, id string) error
	ActivateUser(ctx context.Context, id string) error
	UpdateUserRole(ctx context.Context, id string, role domain.Role) error
	CountActiveAdmins(ctx context.Context) (int, error)
}
