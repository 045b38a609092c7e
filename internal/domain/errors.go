package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrSecretNotFound   = errors.New("secret not found")
	ErrNotInitiated     = errors.New("session has not been initiated")
	ErrAlreadyListening = errors.New("runner is already being consumed")
	ErrStopped          = errors.New("runner stopped")
)

// AuthenticationError means the golden key is invalid or expired. It is never
// retried; the caller has to supply a new credential.
type AuthenticationError struct {
	StatusCode int
	Reason     string
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed: status %d: %s", e.StatusCode, e.Reason)
	}
	return "authentication failed: " + e.Reason
}

// TransientRequestError is returned once the retry budget for a transient
// failure (timeout, connection reset, 5xx, 429) is exhausted.
type TransientRequestError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *TransientRequestError) Error() string {
	return fmt.Sprintf("request %s failed after %d attempts: %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *TransientRequestError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when the response parser rejects a body.
type MalformedResponseError struct {
	Schema string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Schema, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// RequestFailedError is a permanent (non-retried) HTTP failure such as 404.
type RequestFailedError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *RequestFailedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request %s failed with status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("request %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

type MessageNotDeliveredError struct {
	ChatID ChatID
	Reason string
}

func (e *MessageNotDeliveredError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("message to chat %d not delivered", e.ChatID)
	}
	return fmt.Sprintf("message to chat %d not delivered: %s", e.ChatID, e.Reason)
}

// IsAuthentication reports whether err carries an AuthenticationError.
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
