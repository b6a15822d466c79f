package handlers

import "errors"

// Exit codes: 0 for full success, 1 for a run that executed but did not
// fully converge, 2 for configuration problems detected before any remote
// call.
const (
	exitRunFailure  = 1
	exitConfigError = 2
)

// ExitError carries an exit code alongside the error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a handler to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return exitRunFailure
}

func configError(err error) error {
	return &ExitError{Code: exitConfigError, Err: err}
}

func runError(err error) error {
	return &ExitError{Code: exitRunFailure, Err: err}
}
