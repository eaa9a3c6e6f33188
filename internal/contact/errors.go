package contact

import "errors"

// Service errors.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
)
