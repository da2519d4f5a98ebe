package fetcher

import (
	"fmt"
	"time"
)

// LoadTimeoutError reports that navigation did not complete within the
// timeout budget.
type LoadTimeoutError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *LoadTimeoutError) Error() string {
	return fmt.Sprintf("page load timed out after %s for %s: %v", e.Timeout, e.URL, e.Err)
}

func (e *LoadTimeoutError) Unwrap() error { return e.Err }

// TableNotFoundError reports that the expected table element never appeared.
// Snippet carries a prefix of the rendered page so a site layout change can
// be told apart from a transient network issue.
type TableNotFoundError struct {
	Selector string
	Snippet  string
	Err      error
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("no element matched %q: %v", e.Selector, e.Err)
}

func (e *TableNotFoundError) Unwrap() error { return e.Err }
