// Package postgres provides the PostgreSQL implementation of the accounts
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vkazarin/clinicdesk/internal/accounts"
	"github.com/vkazarin/clinicdesk/internal/domain"
)

const uniqueViolationCode = "23505"

// adminGuardLockID is the advisory lock key serializing mutations that can
// remove an active admin. Transaction-scoped, so it also holds across
// multiple server instances sharing the database.
const adminGuardLockID = int64(0x636c_6164_6d69_6e73) // "cladmins"

// Repository implements the accounts.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user account.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, display_name, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.Username,
		user.DisplayName,
		user.PasswordHash,
		user.Role,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return accounts.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by id.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, username, display_name, password_hash, role, active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// ListUsers retrieves all user accounts, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, username, display_name, password_hash, role, active, created_at, updated_at
		FROM users
		ORDER BY created_at DESC, username
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.DisplayName,
			&user.PasswordHash,
			&user.Role,
			&user.Active,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// DeactivateUser marks a user inactive, guarding the last-admin invariant
// in a single transaction.
func (r *Repository) DeactivateUser(ctx context.Context, id string) error {
	return r.mutateGuarded(ctx, id,
		`UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1`)
}

// ActivateUser marks a user active again.
func (r *Repository) ActivateUser(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET active = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return accounts.ErrUserNotFound
	}
	return nil
}

// UpdateUserRole changes a user's role, guarding the last-admin invariant
// when an active admin is demoted.
func (r *Repository) UpdateUserRole(ctx context.Context, id string, role domain.Role) error {
	return r.mutateGuarded(ctx, id,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, role)
}

// CountActiveAdmins returns the number of active admin accounts.
func (r *Repository) CountActiveAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'admin' AND active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active admins: %w", err)
	}
	return count, nil
}

// mutateGuarded applies a user mutation inside a transaction that holds an
// advisory lock, then refuses to commit if no active admin would remain.
// The lock serializes concurrent guarded mutations across all server
// instances, so two simultaneous deactivations can never both pass the
// check. Mutations that cannot touch an admin still pay one lock
// round-trip; account changes are rare enough that this does not matter.
func (r *Repository) mutateGuarded(ctx context.Context, id string, updateQuery string, args ...any) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, adminGuardLockID); err != nil {
		return fmt.Errorf("acquire admin guard lock: %w", err)
	}

	result, err := tx.Exec(ctx, updateQuery, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return accounts.ErrUserNotFound
	}

	var remaining int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role = 'admin' AND active = TRUE`).Scan(&remaining)
	if err != nil {
		return fmt.Errorf("count active admins: %w", err)
	}
	if remaining == 0 {
		return accounts.ErrLastAdmin
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
