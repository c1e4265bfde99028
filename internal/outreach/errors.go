package outreach

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a missing or soft-deleted record.
var ErrNotFound = errors.New("not found")

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ScrapeError wraps a failure that aborted a scrape run. Profiles persisted
// before the failure remain in the store.
type ScrapeError struct {
	Stage string
	Err   error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.Stage, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// MessageGenerationError is surfaced to callers with a generic message;
// the upstream cause is logged server-side only.
type MessageGenerationError struct {
	Err error
}

func (e *MessageGenerationError) Error() string {
	return "failed to generate personalized message"
}

func (e *MessageGenerationError) Unwrap() error {
	return e.Err
}
