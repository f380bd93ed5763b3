package tools

import (
	"errors"
	"fmt"
)

// ErrInvalidMaxAttempts indicates retry was configured with a
// non-positive attempt count.
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

// ErrorKind classifies an adapter failure.
type ErrorKind string

const (
	// KindNotImplemented means no adapter backs this tool yet.
	KindNotImplemented ErrorKind = "not_implemented"
	// KindUpstreamFailure means the adapter's upstream call failed.
	KindUpstreamFailure ErrorKind = "upstream_failure"
	// KindTimeout means the adapter deadline expired.
	KindTimeout ErrorKind = "timeout"
)

// ToolError is a structured adapter failure. Kind is stable and safe to
// expose in response metadata; Err carries operator-facing detail.
type ToolError struct {
	Tool string
	Kind ErrorKind
	Err  error
}

func (e *ToolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("tool %s: %s", e.Tool, e.Kind)
	}
	return fmt.Sprintf("tool %s: %s: %v", e.Tool, e.Kind, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or KindUpstreamFailure when
// the error is not a ToolError.
func KindOf(err error) ErrorKind {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Kind
	}
	return KindUpstreamFailure
}
