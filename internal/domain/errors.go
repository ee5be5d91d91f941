package domain

import (
	"errors"
	"fmt"
)

// ErrQueueUnavailable reports that no queue backend is configured or
// reachable. Dispatch treats it as a fallback trigger, never a user-visible
// failure.
var ErrQueueUnavailable = errors.New("queue backend unavailable")

// ErrJobNotFound reports a job identifier unknown to the queue backend.
var ErrJobNotFound = errors.New("job not found")

// FetchError is a transport or HTTP-level failure talking to an external
// provider.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FormatError means a response was received but not in the expected shape.
type FormatError struct {
	Source string
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s response format: %s", e.Source, e.Detail)
}
