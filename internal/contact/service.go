// Package contact implements the contact form: anonymous visitors submit
// messages, admins review them.
package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/vkazarin/clinicdesk/internal/domain"
	"github.com/vkazarin/clinicdesk/internal/pkg/metrics"
)

// Service implements contact form business logic.
type Service struct {
	repo Repository
}

// NewService creates a new contact service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SubmitInput holds a contact form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Message string
}

// Submit persists a new submission with status "new". Field validation
// happens at the handler; the service only normalizes whitespace.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*domain.ContactSubmission, error) {
	submission := &domain.ContactSubmission{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Message: strings.TrimSpace(input.Message),
		Status:  domain.SubmissionStatusNew,
	}

	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		metrics.ContactSubmissionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create submission: %w", err)
	}

	metrics.ContactSubmissionsTotal.WithLabelValues("accepted").Inc()
	return submission, nil
}

// ListSubmissions returns submissions, optionally filtered by status.
func (s *Service) ListSubmissions(ctx context.Context, filter Filter) ([]domain.ContactSubmission, error) {
	return s.repo.ListSubmissions(ctx, filter)
}

// GetSubmission returns the submission with the given id.
func (s *Service) GetSubmission(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	return s.repo.GetSubmissionByID(ctx, id)
}

// MarkReviewed marks a submission reviewed. Marking an already-reviewed
// submission is a no-op.
func (s *Service) MarkReviewed(ctx context.Context, id string) error {
	return s.repo.MarkReviewed(ctx, id)
}
