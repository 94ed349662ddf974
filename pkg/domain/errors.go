package domain

import (
	"errors"
	"fmt"
)

// Input error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeLengthMismatch      = "LENGTH_MISMATCH"
	CodeInsufficientHistory = "INSUFFICIENT_HISTORY"
	CodeInvalidHorizon      = "INVALID_HORIZON"
	CodeInvalidSamples      = "INVALID_SAMPLES"
	CodeInvalidDate         = "INVALID_DATE"
)

// InputError is a request the caller has to fix. It is never retried.
type InputError struct {
	Code    string
	Message string
}

// NewInputError creates an InputError.
func NewInputError(code, format string, args ...interface{}) *InputError {
	return &InputError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *InputError) Error() string {
	return e.Message
}

// IsInputError reports whether err is, or wraps, an InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

// PredictorError is a failure of an external predictor. It is recovered by
// falling back to the statistical sampler and never reaches the caller.
type PredictorError struct {
	Predictor string
	Err       error
}

func (e *PredictorError) Error() string {
	return fmt.Sprintf("predictor %s failed: %v", e.Predictor, e.Err)
}

func (e *PredictorError) Unwrap() error {
	return e.Err
}
