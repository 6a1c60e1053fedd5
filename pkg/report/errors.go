package report

import "errors"

// Common errors returned by the report store.
var (
	// ErrRecordNotFound is returned when a record ID does not exist.
	ErrRecordNotFound = errors.New("report record not found")

	// ErrTagNotFound is returned when a tag has no records.
	ErrTagNotFound = errors.New("report tag not found")

	// ErrInvalidRecord is returned when a record fails basic validation.
	ErrInvalidRecord = errors.New("invalid report record")

	// ErrInvalidID is returned when a record ID is malformed.
	ErrInvalidID = errors.New("invalid record id")
)
