package inspire

import (
	"errors"
	"fmt"
)

// Common errors returned by the INSPIRE client.
var (
	// ErrNotFound indicates the record does not exist.
	ErrNotFound = errors.New("record not found in INSPIRE")

	// ErrRateLimited indicates the upstream rate limit has been exceeded.
	ErrRateLimited = errors.New("INSPIRE rate limit exceeded")

	// ErrNetworkError indicates a transport failure.
	ErrNetworkError = errors.New("network error communicating with INSPIRE")

	// ErrInvalidResponse indicates a body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from INSPIRE")

	// ErrFetchFailed is returned by a Fetcher when no records could be
	// retrieved for a non-empty identifier list.
	ErrFetchFailed = errors.New("fetching records failed")
)

// APIError represents a non-success HTTP status from the INSPIRE API.
type APIError struct {
	StatusCode int
	Message    string
	RecordID   string // For context in single-record errors
}

func (e *APIError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("INSPIRE API error (status %d): %s (record: %s)", e.StatusCode, e.Message, e.RecordID)
	}
	return fmt.Sprintf("INSPIRE API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a record was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
