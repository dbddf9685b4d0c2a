package content

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTopic is returned before any network call when no topic is set.
	ErrEmptyTopic = errors.New("topic is required")
	// ErrInvalidStyle flags a learning style outside the supported set.
	ErrInvalidStyle = errors.New("unsupported learning style")
	// ErrRequestFailed covers non-2xx responses, transport errors and
	// undecodable bodies alike.
	ErrRequestFailed = errors.New("content generation failed")
)

// StatusError records a non-2xx reply for diagnostics.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("content API error: %s", e.Status)
	}
	return fmt.Sprintf("content API error: %s (%s)", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}
