package errors

import "errors"

// Outcome codes
const (
	// Resource errors
	CodeNotFound     = "NOT_FOUND"
	CodeDuplicateKey = "DUPLICATE_KEY"

	// Authorization errors
	CodePermissionDenied = "PERMISSION_DENIED"

	// Validation errors
	CodeInvalidInput = "INVALID_INPUT"

	// Authentication errors
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"

	// I/O and unexpected failures
	CodeInternal = "INTERNAL"
)

// OpError is the outcome value every recipe returns on failure. The
// presentation layer renders the code and message; Err carries the wrapped
// cause for internal failures.
type OpError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause.
func (e *OpError) Unwrap() error {
	return e.Err
}

// New creates an OpError with the given code and message.
func New(code, message string) *OpError {
	return &OpError{Code: code, Message: message}
}

// NotFound creates a NOT_FOUND outcome.
func NotFound(message string) *OpError {
	if message == "" {
		message = "resource not found"
	}
	return New(CodeNotFound, message)
}

// DuplicateKey creates a DUPLICATE_KEY outcome.
func DuplicateKey(message string) *OpError {
	if message == "" {
		message = "identifier already in use"
	}
	return New(CodeDuplicateKey, message)
}

// PermissionDenied creates a PERMISSION_DENIED outcome.
func PermissionDenied(message string) *OpError {
	if message == "" {
		message = "permission denied"
	}
	return New(CodePermissionDenied, message)
}

// InvalidInput creates an INVALID_INPUT outcome.
func InvalidInput(message string) *OpError {
	if message == "" {
		message = "invalid input"
	}
	return New(CodeInvalidInput, message)
}

// InvalidCredentials creates an INVALID_CREDENTIALS outcome.
func InvalidCredentials(message string) *OpError {
	if message == "" {
		message = "invalid username or password"
	}
	return New(CodeInvalidCredentials, message)
}

// AccountInactive creates an ACCOUNT_INACTIVE outcome.
func AccountInactive(message string) *OpError {
	if message == "" {
		message = "account is inactive"
	}
	return New(CodeAccountInactive, message)
}

// Internal wraps an unexpected failure, typically an I/O error, which is
// fatal for the in-progress recipe.
func Internal(message string, err error) *OpError {
	if message == "" {
		message = "internal error"
	}
	return &OpError{Code: CodeInternal, Message: message, Err: err}
}

// codeOf extracts the outcome code from err, or "" if err is not an OpError.
func codeOf(err error) string {
	var op *OpError
	if errors.As(err, &op) {
		return op.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND outcome.
func IsNotFound(err error) bool { return codeOf(err) == CodeNotFound }

// IsDuplicateKey reports whether err is a DUPLICATE_KEY outcome.
func IsDuplicateKey(err error) bool { return codeOf(err) == CodeDuplicateKey }

// IsPermissionDenied reports whether err is a PERMISSION_DENIED outcome.
func IsPermissionDenied(err error) bool { return codeOf(err) == CodePermissionDenied }

// IsInvalidInput reports whether err is an INVALID_INPUT outcome.
func IsInvalidInput(err error) bool { return codeOf(err) == CodeInvalidInput }

// IsInvalidCredentials reports whether err is an INVALID_CREDENTIALS outcome.
func IsInvalidCredentials(err error) bool { return codeOf(err) == CodeInvalidCredentials }

// IsAccountInactive reports whether err is an ACCOUNT_INACTIVE outcome.
func IsAccountInactive(err error) bool { return codeOf(err) == CodeAccountInactive }
