package api

import (
	"errors"
	"fmt"

	"github.com/dgnsrekt/catalog-stream/internal/catalog"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrRateLimited = errors.New("rate limited by server")
)

// APIError is a non-retryable error response from the catalog service.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []catalog.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// IsValidation reports whether err is a rejected record.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 400
}
