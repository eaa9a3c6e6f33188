package domain

import "time"

// SubmissionStatus represents the review state of a contact submission.
type SubmissionStatus string

// Submission statuses.
const (
	SubmissionStatusNew      SubmissionStatus = "new"
	SubmissionStatusReviewed SubmissionStatus = "reviewed"
)

// IsValid checks if the submission status is valid.
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusNew, SubmissionStatusReviewed:
		return true
	}
	return false
}

// ContactSubmission is a record of an anonymous visitor's contact-form
// entry. Submissions are inserted by the public site and only ever mutated
// by an admin marking them reviewed.
type ContactSubmission struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Message   string           `json:"message"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
