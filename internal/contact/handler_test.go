package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkazarin/clinicdesk/internal/domain"
)

func newTestRouter(repo Repository) *chi.Mux {
	handler := NewHandler(NewService(repo))
	router := chi.NewRouter()
	handler.RegisterPublicRoutes(router)
	handler.RegisterAdminRoutes(router)
	return router
}

func TestSubmitHandler_Created(t *testing.T) {
	// Arrange
	repo := newMockRepository()
	router := newTestRouter(repo)

	body := `{"name":"Jane Visitor","email":"jane@example.com","message":"Do you take new patients?"}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()

	// Act
	router.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data domain.ContactSubmission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, domain.SubmissionStatusNew, resp.Data.Status)
	assert.Len(t, repo.submissions, 1)
}

func TestSubmitHandler_EmptyMessage(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	body := `{"name":"Jane Visitor","email":"jane@example.com","message":""}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Message string `json:"message"`
			Details []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Message", resp.Error.Details[0].Field)
	assert.Empty(t, repo.submissions)
}

func TestSubmitHandler_WhitespaceMessage(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	body := `{"name":"Jane Visitor","email":"jane@example.com","message":"   "}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error struct {
			Details []struct {
				Field   string `json:"field"`
				Message string `json:"message"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Message", resp.Error.Details[0].Field)
	assert.Empty(t, repo.submissions)
}

func TestSubmitHandler_InvalidEmail(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	body := `{"name":"Jane","email":"not-an-email","message":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.submissions)
}

func TestSubmitHandler_InvalidJSON(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSubmissionsHandler_Filter(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	router := newTestRouter(repo)

	first, err := service.Submit(context.Background(), SubmitInput{Name: "A", Email: "a@example.com", Message: "one"})
	require.NoError(t, err)
	_, err = service.Submit(context.Background(), SubmitInput{Name: "B", Email: "b@example.com", Message: "two"})
	require.NoError(t, err)
	require.NoError(t, service.MarkReviewed(context.Background(), first.ID))

	req := httptest.NewRequest(http.MethodGet, "/admin/contact?status=new", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []domain.ContactSubmission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "B", resp.Data[0].Name)
}

func TestListSubmissionsHandler_InvalidStatus(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/admin/contact?status=bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkReviewedHandler(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)
	router := newTestRouter(repo)

	submission, err := service.Submit(context.Background(), SubmitInput{Name: "A", Email: "a@example.com", Message: "one"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/contact/"+submission.ID+"/review", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.ContactSubmission `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.SubmissionStatusReviewed, resp.Data.Status)
}

func TestMarkReviewedHandler_NotFound(t *testing.T) {
	router := newTestRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodPost, "/admin/contact/missing/review", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
