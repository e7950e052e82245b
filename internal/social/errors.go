package social

import (
	"errors"
	"net/http"
)

var ErrIncompleteCredentials = errors.New("social credentials are incomplete")

type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil || e.Status == "" {
		return "post request failed"
	}
	return "post rejected: " + e.Status
}

func IsUnauthorized(err error) bool {
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden
}
