package executor

// Status is the terminal state of one execution
type Status int

const (
	Success Status = iota
	Failure
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the result of Run. Value is set only for Success and Err only
// for Failure and Cancelled.
type Outcome[T any] struct {
	Status Status
	Value  T
	Err    error
}

func succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Status: Success, Value: v}
}

func failed[T any](err error) Outcome[T] {
	return Outcome[T]{Status: Failure, Err: err}
}

func cancelled[T any](err error) Outcome[T] {
	return Outcome[T]{Status: Cancelled, Err: err}
}

// Transform converts the captured stdout of a successful process into a
// value
type Transform[T any] func(stdout string) (T, error)

// Raw passes stdout through unchanged
func Raw(stdout string) (string, error) {
	return stdout, nil
}

// Const ignores stdout and yields v
func Const[T any](v T) Transform[T] {
	return func(string) (T, error) {
		return v, nil
	}
}

// Total lifts a parser that cannot fail into a Transform
func Total[T any](fn func(string) T) Transform[T] {
	return func(stdout string) (T, error) {
		return fn(stdout), nil
	}
}
