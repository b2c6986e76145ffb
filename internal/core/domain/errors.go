package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a failure with a structured error code.
// Codes follow the pattern WS-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "WS-RMTE-5020")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Cache Errors (CACH)
// ============================================================================

var (
	// ErrCacheRead indicates the local cache could not be read.
	// Always fatal to a reconstruction pass.
	ErrCacheRead = NewDomainError("WS-CACH-5000", "local cache read failed")

	// ErrCacheWrite indicates newly fetched records could not be written back.
	ErrCacheWrite = NewDomainError("WS-CACH-5001", "local cache write failed")
)

// ============================================================================
// Remote Errors (RMTE)
// ============================================================================

var (
	// ErrRemoteFetch indicates a remote query failed. Details carry the stream name.
	ErrRemoteFetch = NewDomainError("WS-RMTE-5020", "remote fetch failed")

	// ErrResultMisaligned indicates a scoped bulk result does not pair up with its scope.
	ErrResultMisaligned = NewDomainError("WS-RMTE-5021", "remote result misaligned with scope")
)

// ============================================================================
// Data Integrity Errors (DATA)
// ============================================================================

var (
	// ErrDataIntegrity is raised for anomalies only when strict integrity is requested.
	ErrDataIntegrity = NewDomainError("WS-DATA-4220", "data integrity anomaly")
)

// ============================================================================
// World Errors (WRLD), returned by the gateway
// ============================================================================

var (
	// ErrPlanetNotFound indicates a requested planet does not exist in the world.
	ErrPlanetNotFound = NewDomainError("WS-WRLD-4040", "planet not found")

	// ErrArtifactNotFound indicates a requested artifact does not exist in the world.
	ErrArtifactNotFound = NewDomainError("WS-WRLD-4041", "artifact not found")

	// ErrRangeInvalid indicates a malformed page range.
	ErrRangeInvalid = NewDomainError("WS-WRLD-4000", "invalid range")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewDomainError("WS-SYS-5000", "internal error")

	// ErrUnauthenticated indicates a missing or wrong API key.
	ErrUnauthenticated = NewDomainError("WS-SYS-4010", "unauthenticated")

	// ErrForbidden indicates the caller is not allowed to reach the endpoint.
	ErrForbidden = NewDomainError("WS-SYS-4030", "forbidden")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("WS-SYS-4290", "too many requests")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("WS-SYS-4000", "invalid argument")
)
