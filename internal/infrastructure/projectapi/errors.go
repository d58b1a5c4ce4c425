package projectapi

import (
	"errors"
	"fmt"
)

// APIError wraps a non-2xx response of the project API.
type APIError struct {
	Code    int
	Message string
	Content []byte
	Method  string
	URL     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("project api %s %s: %d %s", e.Method, e.URL, e.Code, e.Message)
}

// StatusCode returns the HTTP status of the APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
