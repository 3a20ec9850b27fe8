package catalog

import "errors"

var (
	// ErrNetworkError is returned when the lookup request cannot reach the API
	ErrNetworkError = errors.New("catalog network error")

	// ErrBadResponse is returned when the API answers with a non-200 status
	ErrBadResponse = errors.New("catalog returned an error response")
)
