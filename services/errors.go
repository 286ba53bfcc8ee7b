package services

import "github.com/pkg/errors"

var (
	// ErrUnexpectedStatus is returned when the backend answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrInvalidResponse is returned when the backend body is not a JSON envelope.
	ErrInvalidResponse = errors.New("invalid response body")
	// ErrInvalidPayload is returned when a request body cannot be built.
	ErrInvalidPayload = errors.New("invalid request payload")
)
