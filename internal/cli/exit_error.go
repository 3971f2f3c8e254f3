package cli

import "fmt"

// ExitError carries the exit code of a command whose error was already
// reported through diagnostics
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any
func (e *ExitError) Unwrap() error {
	return e.Err
}

func reported(err error) error {
	return &ExitError{Code: 1, Err: err}
}
