// Package errors provides structured error types for breachlens.
//
// This package follows the same conventions throughout the codebase:
// - Sentinel errors for type checking with errors.Is()
// - Error wrapping with context using fmt.Errorf("%w", err)
// - Structured error types for detailed information
// - Error codes for machine-readable categorization
//
// Error code ranges:
// - 1xxx: Configuration errors
// - 2xxx: Dataset / normalization errors
// - 3xxx: Storage errors
// - 4xxx: Transport errors
// - 9xxx: General errors
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error identifier.
type ErrorCode string

// Configuration error codes (1xxx)
const (
	ErrCodeConfigInvalid    ErrorCode = "BREACH_1001"
	ErrCodeConfigMissing    ErrorCode = "BREACH_1002"
	ErrCodeConfigValidation ErrorCode = "BREACH_1003"
)

// Dataset error codes (2xxx)
const (
	ErrCodeEmptyDataset        ErrorCode = "BREACH_2001"
	ErrCodeDatasetNotFound     ErrorCode = "BREACH_2002"
	ErrCodeMalformedRow        ErrorCode = "BREACH_2003"
	ErrCodeUnparsableNumeric   ErrorCode = "BREACH_2004"
	ErrCodeUnparsableTimestamp ErrorCode = "BREACH_2005"
	ErrCodeDatasetUnreadable   ErrorCode = "BREACH_2006"
)

// Storage error codes (3xxx)
const (
	ErrCodeStoreConnectFailed ErrorCode = "BREACH_3001"
	ErrCodeStoreQueryFailed   ErrorCode = "BREACH_3002"
)

// Transport error codes (4xxx)
const (
	ErrCodeBadRequest ErrorCode = "BREACH_4001"
)

// General error codes (9xxx)
const (
	ErrCodeUnknown ErrorCode = "BREACH_9999"
)

// Sentinel errors for type checking with errors.Is().
var (
	// Configuration errors
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrConfigMissing    = errors.New("configuration not found")
	ErrConfigValidation = errors.New("configuration validation failed")

	// Dataset errors. ErrEmptyDataset is the only failure the pipeline
	// propagates; the row-level conditions degrade to defaults instead.
	ErrEmptyDataset        = errors.New("dataset contains no usable rows")
	ErrDatasetNotFound     = errors.New("dataset file not found")
	ErrMalformedRow        = errors.New("row does not match header layout")
	ErrUnparsableNumeric   = errors.New("numeric field is unparsable")
	ErrUnparsableTimestamp = errors.New("timestamp field is unparsable")
	ErrDatasetUnreadable   = errors.New("dataset is unreadable")

	// Storage errors
	ErrStoreConnectFailed = errors.New("store connection failed")
	ErrStoreQueryFailed   = errors.New("store query failed")
)

// BreachError is the base error type with structured information.
type BreachError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
	Cause   error
}

// Error implements the error interface.
func (e *BreachError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *BreachError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error's cause.
func (e *BreachError) Is(target error) bool {
	if e.Cause != nil {
		return errors.Is(e.Cause, target)
	}
	return false
}

// WithContext adds context information to the error.
func (e *BreachError) WithContext(key string, value interface{}) *BreachError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ToMap converts the error to a map for structured logging.
func (e *BreachError) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
	}
	if e.Context != nil {
		m["context"] = e.Context
	}
	if e.Cause != nil {
		m["cause"] = e.Cause.Error()
	}
	return m
}

// NewEmptyDatasetError reports a dataset with zero usable rows after header
// removal and normalization. This is fatal to an analysis invocation: the
// aggregator must never divide by a zero record count.
func NewEmptyDatasetError(source string) *BreachError {
	return &BreachError{
		Code:    ErrCodeEmptyDataset,
		Message: fmt.Sprintf("no valid data rows found in %s", source),
		Cause:   ErrEmptyDataset,
		Context: map[string]interface{}{
			"source": source,
		},
	}
}

// NewDatasetNotFoundError reports a missing dataset file.
func NewDatasetNotFoundError(path string) *BreachError {
	return &BreachError{
		Code:    ErrCodeDatasetNotFound,
		Message: fmt.Sprintf("dataset file not found: %s", path),
		Cause:   ErrDatasetNotFound,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewDatasetUnreadableError reports an I/O failure while reading a dataset.
func NewDatasetUnreadableError(path string, cause error) *BreachError {
	return &BreachError{
		Code:    ErrCodeDatasetUnreadable,
		Message: fmt.Sprintf("failed to read dataset: %s", path),
		Cause:   cause,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewMalformedRowError reports a row that could not be split into the
// expected column count. Recovered locally by padding trailing fields;
// surfaced only in diagnostics, never fatal.
func NewMalformedRowError(lineNumber, got, want int) *BreachError {
	return &BreachError{
		Code:    ErrCodeMalformedRow,
		Message: fmt.Sprintf("row %d has %d values, header has %d", lineNumber, got, want),
		Cause:   ErrMalformedRow,
		Context: map[string]interface{}{
			"line_number": lineNumber,
			"values":      got,
			"headers":     want,
		},
	}
}

// NewUnparsableNumericError reports a numeric field that failed parsing.
// Recovered locally by substituting 0.
func NewUnparsableNumericError(field, value string) *BreachError {
	return &BreachError{
		Code:    ErrCodeUnparsableNumeric,
		Message: fmt.Sprintf("cannot parse %q as numeric %s", value, field),
		Cause:   ErrUnparsableNumeric,
		Context: map[string]interface{}{
			"field": field,
			"value": value,
		},
	}
}

// NewUnparsableTimestampError reports a timestamp that failed parsing.
// Recovered locally by excluding the record from the temporal set.
func NewUnparsableTimestampError(value string) *BreachError {
	return &BreachError{
		Code:    ErrCodeUnparsableTimestamp,
		Message: fmt.Sprintf("cannot parse %q as timestamp", value),
		Cause:   ErrUnparsableTimestamp,
		Context: map[string]interface{}{
			"value": value,
		},
	}
}

// NewConfigValidationError creates a configuration validation error.
func NewConfigValidationError(field string, value interface{}, reason string) *BreachError {
	return &BreachError{
		Code:    ErrCodeConfigValidation,
		Message: fmt.Sprintf("validation failed for '%s': %s", field, reason),
		Cause:   ErrConfigValidation,
		Context: map[string]interface{}{
			"field":  field,
			"value":  fmt.Sprintf("%v", value),
			"reason": reason,
		},
	}
}

// NewConfigMissingError creates a configuration missing error.
func NewConfigMissingError(path string) *BreachError {
	return &BreachError{
		Code:    ErrCodeConfigMissing,
		Message: fmt.Sprintf("configuration file not found: %s", path),
		Cause:   ErrConfigMissing,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewStoreConnectError creates a store connection error.
func NewStoreConnectError(dsnLabel string, cause error) *BreachError {
	return &BreachError{
		Code:    ErrCodeStoreConnectFailed,
		Message: fmt.Sprintf("failed to connect to store %s", dsnLabel),
		Cause:   cause,
		Context: map[string]interface{}{
			"store": dsnLabel,
		},
	}
}

// NewStoreQueryError creates a store query error.
func NewStoreQueryError(query string, cause error) *BreachError {
	return &BreachError{
		Code:    ErrCodeStoreQueryFailed,
		Message: "store query failed",
		Cause:   cause,
		Context: map[string]interface{}{
			"query": query,
		},
	}
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	var breachErr *BreachError
	if errors.As(err, &breachErr) {
		return breachErr.Code
	}
	return ErrCodeUnknown
}
