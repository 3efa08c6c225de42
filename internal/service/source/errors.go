package source

import "fmt"

// TransientError covers network failures, timeouts, and non-2xx statuses.
// The fallback chain moves on to the next strategy and the TTL cache may
// answer with a stale entry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func (e *TransientError) Transient() bool { return true }

// ParseError means a strategy could not locate a plausible value in the
// fetched payload. Treated exactly like a transient fetch failure.
type ParseError struct {
	Source string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *ParseError) Transient() bool { return true }

func transientf(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

func parseErr(source, reason string) error {
	return &ParseError{Source: source, Reason: reason}
}
