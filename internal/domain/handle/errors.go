package handle

import (
	"fmt"
	"strings"
)

// Code identifies a registration failure
type Code string

// Failure codes
const (
	CodeWrongServerType        Code = "WRONG_SERVER_TYPE"
	CodeIncompleteConfig       Code = "INCOMPLETE_CONFIG"
	CodeTransformNotFound      Code = "TRANSFORM_NOT_FOUND"
	CodeNotEligible            Code = "NOT_ELIGIBLE"
	CodeNotPublic              Code = "NOT_PUBLIC"
	CodeVisibilityCheckFailed  Code = "VISIBILITY_CHECK_FAILED"
	CodeAlreadyRegistered      Code = "ALREADY_REGISTERED"
	CodeConflictingIdentifier  Code = "CONFLICTING_IDENTIFIER"
	CodeRegistrationInProgress Code = "REGISTRATION_IN_PROGRESS"
	CodeSubmissionFailed       Code = "SUBMISSION_FAILED"
	CodePartialRegistration    Code = "PARTIAL_REGISTRATION"
)

// Category groups failure codes by how an operator resolves them
type Category string

// Failure categories
const (
	CategoryConfiguration Category = "CONFIGURATION"
	CategoryEligibility   Category = "ELIGIBILITY"
	CategoryDuplicate     Category = "DUPLICATE"
	CategorySubmission    Category = "SUBMISSION"
	CategoryPersistence   Category = "PERSISTENCE"
)

var codeCategories = map[Code]Category{
	CodeWrongServerType:        CategoryConfiguration,
	CodeIncompleteConfig:       CategoryConfiguration,
	CodeTransformNotFound:      CategoryConfiguration,
	CodeNotEligible:            CategoryEligibility,
	CodeNotPublic:              CategoryEligibility,
	CodeVisibilityCheckFailed:  CategoryEligibility,
	CodeAlreadyRegistered:      CategoryDuplicate,
	CodeConflictingIdentifier:  CategoryDuplicate,
	CodeRegistrationInProgress: CategoryDuplicate,
	CodeSubmissionFailed:       CategorySubmission,
	CodePartialRegistration:    CategoryPersistence,
}

// Category returns the category of the code
func (c Code) Category() Category {
	return codeCategories[c]
}

// Error is a failed check or registration attempt.
// RecordUUID, Server and Value identify what was being registered and the offending value.
type Error struct {
	Code       Code
	Message    string
	RecordUUID string
	Server     string
	Value      string
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors with the same code, so errors.Is(err, ErrNotPublic) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Category returns the category of the error code
func (e *Error) Category() Category {
	return e.Code.Category()
}

// Sentinels for errors.Is
var (
	ErrWrongServerType        = &Error{Code: CodeWrongServerType, Message: "server is not a handle server"}
	ErrIncompleteConfig       = &Error{Code: CodeIncompleteConfig, Message: "handle server configuration is not complete"}
	ErrTransformNotFound      = &Error{Code: CodeTransformNotFound, Message: "handle insertion transform not found"}
	ErrNotEligible            = &Error{Code: CodeNotEligible, Message: "record is not eligible for this handle server"}
	ErrNotPublic              = &Error{Code: CodeNotPublic, Message: "record is not public"}
	ErrVisibilityCheckFailed  = &Error{Code: CodeVisibilityCheckFailed, Message: "record visibility check failed"}
	ErrAlreadyRegistered      = &Error{Code: CodeAlreadyRegistered, Message: "record already has a handle"}
	ErrConflictingIdentifier  = &Error{Code: CodeConflictingIdentifier, Message: "record has a different handle"}
	ErrRegistrationInProgress = &Error{Code: CodeRegistrationInProgress, Message: "handle registration already in progress"}
	ErrSubmissionFailed       = &Error{Code: CodeSubmissionFailed, Message: "handle submission failed"}
	ErrPartialRegistration    = &Error{Code: CodePartialRegistration, Message: "handle registered but record not updated"}
)

func newWrongServerTypeError(server *RegistryServer) *Error {
	return &Error{
		Code:    CodeWrongServerType,
		Message: fmt.Sprintf("server '%s' is not configured as a handle server", server.Name),
		Server:  server.Name,
		Value:   server.Type.String(),
	}
}

func newIncompleteConfigError(server *RegistryServer, missing []string) *Error {
	return &Error{
		Code: CodeIncompleteConfig,
		Message: fmt.Sprintf("handle server '%s' configuration is not complete, missing %s",
			server.Name, strings.Join(missing, ", ")),
		Server: server.Name,
		Value:  strings.Join(missing, ","),
	}
}

func newNotEligibleError(server *RegistryServer, record *Record) *Error {
	return &Error{
		Code: CodeNotEligible,
		Message: fmt.Sprintf("handle server '%s' cannot handle metadata with UUID '%s'",
			server.Name, record.UUID),
		RecordUUID: record.UUID,
		Server:     server.Name,
		Value:      fmt.Sprintf("%d", record.OwnerGroup),
	}
}

func newNotPublicError(server *RegistryServer, record *Record) *Error {
	return &Error{
		Code:       CodeNotPublic,
		Message:    fmt.Sprintf("record '%s' is not public and a handle cannot be created", record.UUID),
		RecordUUID: record.UUID,
		Server:     server.Name,
	}
}

func newVisibilityCheckError(server *RegistryServer, record *Record, cause error) *Error {
	return &Error{
		Code:       CodeVisibilityCheckFailed,
		Message:    fmt.Sprintf("failed to check if record '%s' is visible to all", record.UUID),
		RecordUUID: record.UUID,
		Server:     server.Name,
		Err:        cause,
	}
}

func newAlreadyRegisteredError(server *RegistryServer, record *Record) *Error {
	return &Error{
		Code:       CodeAlreadyRegistered,
		Message:    fmt.Sprintf("record '%s' already contains a handle '%s'", record.UUID, record.ExistingIdentifier),
		RecordUUID: record.UUID,
		Server:     server.Name,
		Value:      record.ExistingIdentifier,
	}
}

func newConflictingIdentifierError(server *RegistryServer, record *Record) *Error {
	return &Error{
		Code: CodeConflictingIdentifier,
		Message: fmt.Sprintf("record '%s' already contains a different handle '%s'",
			record.UUID, record.ExistingIdentifier),
		RecordUUID: record.UUID,
		Server:     server.Name,
		Value:      record.ExistingIdentifier,
	}
}

// NewTransformNotFoundError reports a schema without a handle insertion transform
func NewTransformNotFoundError(server *RegistryServer, record *Record) *Error {
	return &Error{
		Code: CodeTransformNotFound,
		Message: fmt.Sprintf("handle insertion transform not found for schema '%s'",
			record.SchemaID),
		RecordUUID: record.UUID,
		Server:     server.Name,
		Value:      record.SchemaID,
	}
}

// NewRegistrationInProgressError reports a concurrent attempt holding the registration guard
func NewRegistrationInProgressError(server *RegistryServer, record *Record) *Error {
	return &Error{
		Code: CodeRegistrationInProgress,
		Message: fmt.Sprintf("a handle registration for record '%s' on server '%s' is already in progress",
			record.UUID, server.Name),
		RecordUUID: record.UUID,
		Server:     server.Name,
	}
}

// NewSubmissionFailedError wraps a registry failure, normally a *SubmissionError
func NewSubmissionFailedError(server *RegistryServer, record *Record, identifier string, cause error) *Error {
	return &Error{
		Code:       CodeSubmissionFailed,
		Message:    fmt.Sprintf("handle '%s' was not registered", identifier),
		RecordUUID: record.UUID,
		Server:     server.Name,
		Value:      identifier,
		Err:        cause,
	}
}

// NewPartialRegistrationError reports a handle accepted by the registry whose record update failed.
// The registry and the record store now disagree and need manual reconciliation.
func NewPartialRegistrationError(server *RegistryServer, record *Record, identifierURL string, cause error) *Error {
	return &Error{
		Code: CodePartialRegistration,
		Message: fmt.Sprintf("handle '%s' was registered on '%s' but record '%s' was not updated",
			identifierURL, server.Name, record.UUID),
		RecordUUID: record.UUID,
		Server:     server.Name,
		Value:      identifierURL,
		Err:        cause,
	}
}

// SubmissionError is a rejected or failed request to the registry
type SubmissionError struct {
	// URL is the registry endpoint the payload was sent to
	URL string
	// HandleURL is the public URL of the handle being registered
	HandleURL  string
	StatusCode int
	// Body is the registry response body, or the status text when the body was empty
	Body string
	Err  error
}

// Error implements the error interface
func (e *SubmissionError) Error() string {
	detail := e.Body
	if e.Err != nil {
		detail = e.Err.Error()
	}
	return fmt.Sprintf("error registering handle '%s': %s", e.HandleURL, detail)
}

// Unwrap returns the transport error, if any
func (e *SubmissionError) Unwrap() error {
	return e.Err
}
