package errors

import (
	"errors"
	"fmt"
)

type Status string

// Required configuration (addresses, keys, chain aliases) is missing or invalid.
// Raised before any network call is made.
const ConfigurationError Status = "ConfigurationError"

// The located inputs do not cover the amount plus the fee.
const InsufficientFunds Status = "InsufficientFunds"

// No key is available for an owner that must authorize an input.
const MissingKey Status = "MissingKey"

// An input was consumed between discovery and broadcast.
const StaleInput Status = "StaleInput"

// A network error occured -- there may be nothing wrong with the transaction
const TransportFailure Status = "TransportFailure"

// The broadcast outcome is unknown (e.g. the request timed out after it was sent).
const Indeterminate Status = "Indeterminate"

// A builder precondition was violated by the caller.
const InvalidArgument Status = "InvalidArgument"

// The fee of a built tx is above the configured fee limit; nothing was signed.
const FeeLimitExceeded Status = "FeeLimitExceeded"

// A transaction failed to submit because it already exists
const TransactionExists Status = "TransactionExists"

// A transaction terminally failed due to another reason
const TransactionFailure Status = "TransactionFailure"

// No outcome for this error known
const UnknownError Status = "UnknownError"

// Retryable reports whether the caller may re-run the operation that produced
// an error of this status without changing its inputs.
func (s Status) Retryable() bool {
	switch s {
	case TransportFailure, StaleInput:
		return true
	}
	return false
}

type Error struct {
	Status  Status
	Message string
	Cause   error
}

var _ error = &Error{}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Errorf(status Status, format string, args ...interface{}) error {
	return &Error{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a status to an underlying error.  The cause stays reachable via errors.Is/As.
func Wrap(status Status, cause error, format string, args ...interface{}) error {
	return &Error{
		Status:  status,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func Configurationf(format string, args ...interface{}) error {
	return Errorf(ConfigurationError, format, args...)
}

func InsufficientFundsf(format string, args ...interface{}) error {
	return Errorf(InsufficientFunds, format, args...)
}

func MissingKeyf(format string, args ...interface{}) error {
	return Errorf(MissingKey, format, args...)
}

func InvalidArgumentf(format string, args ...interface{}) error {
	return Errorf(InvalidArgument, format, args...)
}

// Used to indicate that the transaction already exists on chain,
// when attempting to submit.
func TransactionExistsf(format string, args ...interface{}) error {
	return Errorf(TransactionExists, format, args...)
}

func Unknownf(format string, args ...interface{}) error {
	return Errorf(UnknownError, format, args...)
}

// StatusOf returns the status of the first *Error in the chain, or UnknownError.
func StatusOf(err error) Status {
	if err == nil {
		return ""
	}
	var xcErr *Error
	if errors.As(err, &xcErr) {
		return xcErr.Status
	}
	return UnknownError
}

// Is reports whether any *Error in the chain carries the status.
func Is(err error, status Status) bool {
	for err != nil {
		var xcErr *Error
		if !errors.As(err, &xcErr) {
			return false
		}
		if xcErr.Status == status {
			return true
		}
		err = xcErr.Cause
	}
	return false
}
