package api

import (
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the tutoring service.
type Error struct {
	StatusCode int

	// Detail is the server-supplied explanation, empty when the body did
	// not carry one.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("tutoring service: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("tutoring service: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
