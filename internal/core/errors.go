package core

import "errors"

var (
	// ErrNotFound is returned when a referenced survey, family, organization
	// or application id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFilter is returned when a report is requested without the
	// filter fields its shape requires.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidArgument is returned for malformed ids and inputs.
	ErrInvalidArgument = errors.New("invalid argument")
)
