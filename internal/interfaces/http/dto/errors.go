package dto

import (
	"net/http"

	"github.com/catalog/pidreg/internal/domain/handle"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Handle registration error codes, one per handle.Code
const (
	ErrCodeWrongServerType        = "ERR_HANDLE_WRONG_SERVER_TYPE"
	ErrCodeIncompleteConfig       = "ERR_HANDLE_INCOMPLETE_CONFIG"
	ErrCodeTransformNotFound      = "ERR_HANDLE_TRANSFORM_NOT_FOUND"
	ErrCodeNotEligible            = "ERR_HANDLE_NOT_ELIGIBLE"
	ErrCodeNotPublic              = "ERR_HANDLE_NOT_PUBLIC"
	ErrCodeVisibilityCheckFailed  = "ERR_HANDLE_VISIBILITY_CHECK_FAILED"
	ErrCodeAlreadyRegistered      = "ERR_HANDLE_ALREADY_REGISTERED"
	ErrCodeConflictingIdentifier  = "ERR_HANDLE_CONFLICTING_IDENTIFIER"
	ErrCodeRegistrationInProgress = "ERR_HANDLE_REGISTRATION_IN_PROGRESS"
	ErrCodeSubmissionFailed       = "ERR_HANDLE_SUBMISSION_FAILED"
	ErrCodePartialRegistration    = "ERR_HANDLE_PARTIAL_REGISTRATION"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Configuration: the caller picked a server that cannot be used, except a missing
	// transform which is a deployment problem
	ErrCodeWrongServerType:   http.StatusBadRequest,
	ErrCodeIncompleteConfig:  http.StatusBadRequest,
	ErrCodeTransformNotFound: http.StatusInternalServerError,

	// Eligibility -> 400
	ErrCodeNotEligible:           http.StatusBadRequest,
	ErrCodeNotPublic:             http.StatusBadRequest,
	ErrCodeVisibilityCheckFailed: http.StatusInternalServerError,

	// Duplicate -> 409
	ErrCodeAlreadyRegistered:      http.StatusConflict,
	ErrCodeConflictingIdentifier:  http.StatusConflict,
	ErrCodeRegistrationInProgress: http.StatusConflict,

	// The registry refused or could not be reached
	ErrCodeSubmissionFailed: http.StatusBadGateway,

	// The handle exists but the record does not carry it
	ErrCodePartialRegistration: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps shared.DomainError codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

var handleErrorCodes = map[handle.Code]string{
	handle.CodeWrongServerType:        ErrCodeWrongServerType,
	handle.CodeIncompleteConfig:       ErrCodeIncompleteConfig,
	handle.CodeTransformNotFound:      ErrCodeTransformNotFound,
	handle.CodeNotEligible:            ErrCodeNotEligible,
	handle.CodeNotPublic:              ErrCodeNotPublic,
	handle.CodeVisibilityCheckFailed:  ErrCodeVisibilityCheckFailed,
	handle.CodeAlreadyRegistered:      ErrCodeAlreadyRegistered,
	handle.CodeConflictingIdentifier:  ErrCodeConflictingIdentifier,
	handle.CodeRegistrationInProgress: ErrCodeRegistrationInProgress,
	handle.CodeSubmissionFailed:       ErrCodeSubmissionFailed,
	handle.CodePartialRegistration:    ErrCodePartialRegistration,
}

// HandleErrorCode returns the API error code for a handle registration failure
func HandleErrorCode(code handle.Code) string {
	if c, ok := handleErrorCodes[code]; ok {
		return c
	}
	return ErrCodeUnknown
}
