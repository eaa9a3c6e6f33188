// Package postgres provides the PostgreSQL implementation of the contact
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vkazarin/clinicdesk/internal/contact"
	"github.com/vkazarin/clinicdesk/internal/domain"
)

// Repository implements the contact.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateSubmission inserts a new contact submission.
func (r *Repository) CreateSubmission(ctx context.Context, submission *domain.ContactSubmission) error {
	query := `
		INSERT INTO contact_submissions (name, email, message, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		submission.Name,
		submission.Email,
		submission.Message,
		submission.Status,
	).Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// GetSubmissionByID retrieves a submission by id.
func (r *Repository) GetSubmissionByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	query := `
		SELECT id, name, email, message, status, created_at
		FROM contact_submissions
		WHERE id = $1
	`
	var submission domain.ContactSubmission
	err := r.db.QueryRow(ctx, query, id).Scan(
		&submission.ID,
		&submission.Name,
		&submission.Email,
		&submission.Message,
		&submission.Status,
		&submission.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contact.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission by id: %w", err)
	}
	return &submission, nil
}

// ListSubmissions retrieves submissions, newest first.
func (r *Repository) ListSubmissions(ctx context.Context, filter contact.Filter) ([]domain.ContactSubmission, error) {
	query := `
		SELECT id, name, email, message, status, created_at
		FROM contact_submissions
	`
	var args []any
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]domain.ContactSubmission, 0)
	for rows.Next() {
		var submission domain.ContactSubmission
		err := rows.Scan(
			&submission.ID,
			&submission.Name,
			&submission.Email,
			&submission.Message,
			&submission.Status,
			&submission.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}

	return submissions, nil
}

// MarkReviewed sets a submission's status to reviewed.
func (r *Repository) MarkReviewed(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE contact_submissions SET status = 'reviewed' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark submission reviewed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return contact.ErrSubmissionNotFound
	}
	return nil
}
