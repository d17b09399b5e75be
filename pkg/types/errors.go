package types

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrSubcontractorNotFound = errors.New("subcontractor not found")

	// ErrDuplicateEmail maps the unique constraint on contact/login emails.
	ErrDuplicateEmail = errors.New("a record with this email already exists")

	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrValidation wraps any rejected input: bad file type or size,
	// missing required field, malformed email.
	ErrValidation = errors.New("validation failed")

	// ErrStorageUnavailable covers blob store misconfiguration and
	// failed transfers.
	ErrStorageUnavailable = errors.New("file storage unavailable")

	// ErrPersistence covers database write failures after validation
	// has passed.
	ErrPersistence = errors.New("database write failed")
)
