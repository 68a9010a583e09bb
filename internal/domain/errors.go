package domain

import "errors"

// ErrorKind is the stable, machine-readable class of a domain error
type ErrorKind string

const (
	KindDuplicateIdentity ErrorKind = "duplicate_identity"
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindInactiveAccount   ErrorKind = "inactive_account"
	KindNotFound          ErrorKind = "not_found"
	KindForbidden         ErrorKind = "forbidden"
	KindValidation        ErrorKind = "validation_failed"
)

// Error is a domain error that maps to exactly one externally visible outcome
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

var (
	ErrEmailTaken    = &Error{Kind: KindDuplicateIdentity, Field: "email", Message: "Email already registered"}
	ErrUsernameTaken = &Error{Kind: KindDuplicateIdentity, Field: "username", Message: "Username already taken"}

	// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "Incorrect username or password"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Could not validate credentials"}
	ErrInactiveAccount    = &Error{Kind: KindInactiveAccount, Message: "Inactive user"}

	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrProvinceNotFound   = &Error{Kind: KindNotFound, Message: "Province not found"}
	ErrTravelPlanNotFound = &Error{Kind: KindNotFound, Message: "Travel plan not found"}

	ErrForbidden = &Error{Kind: KindForbidden, Message: "Not enough permissions"}

	ErrIncorrectPassword = &Error{Kind: KindValidation, Field: "old_password", Message: "Incorrect old password"}
)

// KindOf returns the kind of a domain error, or "" for any other error
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
