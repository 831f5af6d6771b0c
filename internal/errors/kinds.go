package errors

import stderrors "errors"

// Kind classifies an OperationError
type Kind int

const (
	KindUnknown Kind = iota
	// KindAdmission means the (operation, destination) key already has an
	// execution in flight. It is the only kind returned synchronously to a
	// trigger caller.
	KindAdmission
	// KindSpawn means the external process could not be started.
	KindSpawn
	// KindCommandFailed means the process exited with a nonzero status.
	KindCommandFailed
	// KindParse means the process output could not be transformed.
	KindParse
	KindCancelled
	// KindDestinationUnreachable means a result could not be delivered.
	// It is logged, never propagated.
	KindDestinationUnreachable
	KindConfig
	// KindInvalidArgument means a trigger was called with arguments that
	// would be unsafe to pass to git, such as a ref starting with "-".
	KindInvalidArgument
)

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindAdmission:              "admission",
	KindSpawn:                  "spawn",
	KindCommandFailed:          "command failed",
	KindParse:                  "parse",
	KindCancelled:              "cancelled",
	KindDestinationUnreachable: "destination unreachable",
	KindConfig:                 "config",
	KindInvalidArgument:        "invalid argument",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Common error kinds, usable as errors.Is targets
var (
	ErrAdmission = &OperationError{
		Kind:    KindAdmission,
		Message: "operation already running",
	}

	ErrSpawn = &OperationError{
		Kind:    KindSpawn,
		Message: "failed to start process",
	}

	ErrCommandFailed = &OperationError{
		Kind:    KindCommandFailed,
		Message: "command failed",
	}

	ErrParse = &OperationError{
		Kind:    KindParse,
		Message: "failed to parse output",
	}

	ErrCancelled = &OperationError{
		Kind:    KindCancelled,
		Message: "operation was cancelled",
	}

	ErrDestinationUnreachable = &OperationError{
		Kind:    KindDestinationUnreachable,
		Message: "destination unreachable",
	}

	ErrConfig = &OperationError{
		Kind:    KindConfig,
		Message: "invalid configuration",
	}

	ErrInvalidArgument = &OperationError{
		Kind:    KindInvalidArgument,
		Message: "invalid argument",
	}
)

// KindOf returns the kind of the first OperationError in err's chain
func KindOf(err error) Kind {
	var opErr *OperationError
	if stderrors.As(err, &opErr) {
		return opErr.Kind
	}
	return KindUnknown
}

// IsAdmission checks if the error is an admission rejection
func IsAdmission(err error) bool {
	return stderrors.Is(err, ErrAdmission)
}

// IsCancelled checks if the error reports a cancelled execution
func IsCancelled(err error) bool {
	return stderrors.Is(err, ErrCancelled)
}

// IsCommandFailed checks if the error reports a nonzero process exit
func IsCommandFailed(err error) bool {
	return stderrors.Is(err, ErrCommandFailed)
}

// IsSpawn checks if the error reports a process that never started
func IsSpawn(err error) bool {
	return stderrors.Is(err, ErrSpawn)
}

// IsInvalidArgument checks if the error rejects a trigger's arguments
func IsInvalidArgument(err error) bool {
	return stderrors.Is(err, ErrInvalidArgument)
}

// IsParse checks if the error reports unparseable output
func IsParse(err error) bool {
	return stderrors.Is(err, ErrParse)
}
