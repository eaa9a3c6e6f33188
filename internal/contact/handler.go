package contact

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vkazarin/clinicdesk/internal/domain"
	"github.com/vkazarin/clinicdesk/internal/pkg/httputil"
)

// Handler handles HTTP requests for the contact module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new contact handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers the anonymous submission route.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/contact", h.Submit)
}

// RegisterAdminRoutes registers the admin review routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/admin/contact", func(r chi.Router) {
		r.Get("/", h.ListSubmissions)
		r.Post("/{id}/review", h.MarkReviewed)
	})
}

// SubmitRequest represents contact form request body.
type SubmitRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=4000"`
}

// Submit handles POST /contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Trim before validating so whitespace-only fields fail the required rule.
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	submission, err := h.service.Submit(r.Context(), SubmitInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, submission)
}

// ListSubmissions handles GET /admin/contact.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	var filter Filter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.SubmissionStatus(raw)
		if !status.IsValid() {
			httputil.Error(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		filter.Status = &status
	}

	submissions, err := h.service.ListSubmissions(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, submissions)
}

// MarkReviewed handles POST /admin/contact/{id}/review.
func (h *Handler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.MarkReviewed(r.Context(), id); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	submission, err := h.service.GetSubmission(r.Context(), id)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, submission)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrSubmissionNotFound, Status: http.StatusNotFound},
	})
}
