package publish

import (
	stderrors "errors"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
	"github.com/NicabarNimble/go-gitdesk/internal/executor"
)

// Envelope is the payload delivered to a destination. Result carries the
// parsed value on success and the error text otherwise.
type Envelope struct {
	OK        bool `json:"is_ok"`
	Result    any  `json:"result"`
	Cancelled bool `json:"cancelled,omitempty"`
}

// Success wraps a result value
func Success(v any) Envelope {
	return Envelope{OK: true, Result: v}
}

// Failure reports err. For a failed command the UI gets the command's own
// diagnostic rather than the wrapped error chain.
func Failure(err error) Envelope {
	return Envelope{OK: false, Result: FailureText(err)}
}

// Cancellation is the terminal envelope of a cancelled execution
func Cancellation() Envelope {
	return Envelope{OK: false, Cancelled: true, Result: errors.ErrCancelled.Message}
}

// FailureText renders err for display
func FailureText(err error) string {
	if err == nil {
		return ""
	}
	var opErr *errors.OperationError
	if stderrors.As(err, &opErr) && opErr.Kind == errors.KindCommandFailed && opErr.Message != "" {
		return opErr.Message
	}
	return err.Error()
}

// FromOutcome converts an executor outcome into its envelope
func FromOutcome[T any](out executor.Outcome[T]) Envelope {
	switch out.Status {
	case executor.Success:
		return Success(out.Value)
	case executor.Cancelled:
		return Cancellation()
	default:
		return Failure(out.Err)
	}
}
