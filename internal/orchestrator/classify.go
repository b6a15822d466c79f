package orchestrator

import (
	"errors"
	"fmt"
)

// Classification categorizes a failed remote call. It is attached to every
// error crossing the platform client boundary and drives retry decisions.
type Classification string

const (
	// ClassNotFound indicates the target resource does not exist.
	ClassNotFound Classification = "not_found"
	// ClassConflict indicates the resource already exists (duplicate name or
	// create race). Resolved inside the idempotent step, never a failure.
	ClassConflict Classification = "conflict"
	// ClassNotReady indicates a dependency exists but is not yet usable
	// (capacity still resuming, workspace not yet visible to a dependent API).
	ClassNotReady Classification = "not_ready"
	// ClassTransient indicates a retryable condition such as rate limiting
	// or a 5xx response.
	ClassTransient Classification = "transient"
	// ClassFatal indicates an auth, permission, or validation failure that
	// will not succeed on retry.
	ClassFatal Classification = "fatal"
	// ClassTimeout indicates a convergence poll exhausted its budget without
	// observing a terminal state.
	ClassTimeout Classification = "timeout"
)

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Class Classification
	Err   error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Err)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Classify wraps err with the given classification. A nil err returns nil.
func Classify(class Classification, err error) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Class: class, Err: err}
}

// Classifyf wraps a formatted error with the given classification.
func Classifyf(class Classification, format string, args ...any) error {
	return &ClassifiedError{Class: class, Err: fmt.Errorf(format, args...)}
}

// ClassificationOf extracts the classification from err. Errors that carry
// no classification are treated as fatal: retrying a failure of unknown
// shape risks duplicating side effects.
func ClassificationOf(err error) Classification {
	var cerr *ClassifiedError
	if errors.As(err, &cerr) {
		return cerr.Class
	}
	return ClassFatal
}

// IsNotFound reports whether err is classified as not-found.
func IsNotFound(err error) bool { return is(err, ClassNotFound) }

// IsConflict reports whether err is classified as a conflict.
func IsConflict(err error) bool { return is(err, ClassConflict) }

// IsNotReady reports whether err is classified as not-ready.
func IsNotReady(err error) bool { return is(err, ClassNotReady) }

// IsTransient reports whether err is classified as transient.
func IsTransient(err error) bool { return is(err, ClassTransient) }

// IsTimeout reports whether err is classified as a poll timeout.
func IsTimeout(err error) bool { return is(err, ClassTimeout) }

// IsFatal reports whether err is fatal, either explicitly or because it
// carries no classification.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return ClassificationOf(err) == ClassFatal
}

func is(err error, class Classification) bool {
	if err == nil {
		return false
	}
	var cerr *ClassifiedError
	if errors.As(err, &cerr) {
		return cerr.Class == class
	}
	return false
}

// ConfigurationError reports an invalid graph (cycle, dangling or duplicate
// step) detected before any step executes.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// IsConfigurationError reports whether err is a graph configuration error.
func IsConfigurationError(err error) bool {
	var cerr *ConfigurationError
	return errors.As(err, &cerr)
}
