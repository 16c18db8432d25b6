package service

import "errors"

var (
	// ErrInvalidCredentials is returned when no employee matches the name and password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidDate is returned when a leave date is not a YYYY-MM-DD calendar date
	ErrInvalidDate = errors.New("invalid date")

	// ErrForbidden is returned when the session may not perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrLeaveNotFound is returned when no leave application matches the reference
	ErrLeaveNotFound = errors.New("leave application not found")

	// ErrEmployeeNotFound is returned when the session's employee is no longer on file
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidDecision is returned for a review decision other than approve or reject
	ErrInvalidDecision = errors.New("invalid review decision")

	// ErrDocumentCorrupt is returned in strict mode instead of overwriting an unreadable document
	ErrDocumentCorrupt = errors.New("document is corrupt")
)
