package contact

import (
	"context"

	"github.com/vkazarin/clinicdesk/internal/domain"
)

// Repository defines the data operations for contact submissions.
type Repository interface {
	CreateSubmission(ctx context.Context, submission *domain.ContactSubmission) error
	GetSubmissionByID(ctx context.Context, id string) (*domain.ContactSubmission, error)
	ListSubmissions(ctx context.Context, filter Filter) ([]domain.ContactSubmission, error)
	MarkReviewed(ctx context.Context, id string) error
}

// Filter represents filter criteria for listing submissions.
type Filter struct {
	Status *domain.SubmissionStatus
}
