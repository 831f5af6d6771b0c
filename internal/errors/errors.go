package errors

import "fmt"

// OperationError represents an error that occurred while running or
// reporting a git operation
type OperationError struct {
	Op      string // The operation being performed
	Kind    Kind   // Failure class
	Message string // Human readable detail, e.g. stderr of a failed command
	Err     error  // The underlying error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	switch {
	case e.Op == "":
		if msg == "" {
			return e.Kind.String()
		}
		return msg
	case msg == "":
		return e.Op
	default:
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Err
}

// New creates a new OperationError
func New(op string, err error) *OperationError {
	return &OperationError{
		Op:   op,
		Kind: KindOf(err),
		Err:  err,
	}
}

// NewKind creates a new OperationError of the given kind
func NewKind(op string, kind Kind, message string, err error) *OperationError {
	return &OperationError{
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Is implements error matching for OperationError. A target with only a
// Kind matches any error of that kind, a target with only an Op matches any
// error from that operation, and a target with both must match both.
func (e *OperationError) Is(target error) bool {
	t, ok := target.(*OperationError)
	if !ok {
		return false
	}
	if t.Kind == KindUnknown && t.Op == "" {
		return false
	}
	if t.Kind != KindUnknown && e.Kind != t.Kind {
		return false
	}
	if t.Op != "" && e.Op != t.Op {
		return false
	}
	return true
}
