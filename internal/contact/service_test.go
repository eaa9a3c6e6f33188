package contact

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkazarin/clinicdesk/internal/domain"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	submissions map[string]*domain.ContactSubmission
	nextID      int
	createErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{submissions: make(map[string]*domain.ContactSubmission)}
}

func (m *mockRepository) CreateSubmission(_ context.Context, submission *domain.ContactSubmission) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	submission.ID = fmt.Sprintf("sub-%d", m.nextID)
	stored := *submission
	m.submissions[submission.ID] = &stored
	return nil
}

func (m *mockRepository) GetSubmissionByID(_ context.Context, id string) (*domain.ContactSubmission, error) {
	if s, ok := m.submissions[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, ErrSubmissionNotFound
}

func (m *mockRepository) ListSubmissions(_ context.Context, filter Filter) ([]domain.ContactSubmission, error) {
	result := make([]domain.ContactSubmission, 0)
	for _, s := range m.submissions {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockRepository) MarkReviewed(_ context.Context, id string) error {
	s, ok := m.submissions[id]
	if !ok {
		return ErrSubmissionNotFound
	}
	s.Status = domain.SubmissionStatusReviewed
	return nil
}

func TestSubmit_PersistsNewSubmission(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	service := NewService(repo)

	// Act
	submission, err := service.Submit(context.Background(), SubmitInput{
		Name:    "  Jane Visitor ",
		Email:   "jane@example.com",
		Message: "Do you take new patients?",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.Equal(t, domain.SubmissionStatusNew, submission.Status)
	assert.Equal(t, "Jane Visitor", submission.Name)

	// Exactly one row, matching the returned identifier
	require.Len(t, repo.submissions, 1)
	stored, getErr := repo.GetSubmissionByID(context.Background(), submission.ID)
	require.NoError(t, getErr)
	assert.Equal(t, submission.ID, stored.ID)
	assert.Equal(t, domain.SubmissionStatusNew, stored.Status)
}

func TestSubmit_RepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = fmt.Errorf("connection refused")
	service := NewService(repo)

	_, err := service.Submit(context.Background(), SubmitInput{
		Name:    "Jane",
		Email:   "jane@example.com",
		Message: "hello",
	})

	assert.Error(t, err)
	assert.Empty(t, repo.submissions)
}

func TestMarkReviewed_Idempotent(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	submission, err := service.Submit(context.Background(), SubmitInput{
		Name:    "Jane",
		Email:   "jane@example.com",
		Message: "hello",
	})
	require.NoError(t, err)

	require.NoError(t, service.MarkReviewed(context.Background(), submission.ID))
	require.NoError(t, service.MarkReviewed(context.Background(), submission.ID))

	stored, err := service.GetSubmission(context.Background(), submission.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusReviewed, stored.Status)
}

func TestMarkReviewed_Unknown(t *testing.T) {
	service := NewService(newMockRepository())

	err := service.MarkReviewed(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestListSubmissions_StatusFilter(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	first, err := service.Submit(context.Background(), SubmitInput{
		Name: "A", Email: "a@example.com", Message: "one",
	})
	require.NoError(t, err)
	_, err = service.Submit(context.Background(), SubmitInput{
		Name: "B", Email: "b@example.com", Message: "two",
	})
	require.NoError(t, err)

	require.NoError(t, service.MarkReviewed(context.Background(), first.ID))

	newStatus := domain.SubmissionStatusNew
	pending, err := service.ListSubmissions(context.Background(), Filter{Status: &newStatus})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "B", pending[0].Name)

	all, err := service.ListSubmissions(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
