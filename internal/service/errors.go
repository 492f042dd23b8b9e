package service

import "errors"

var (
	// ErrMissingFields reports a structurally invalid submission.
	ErrMissingFields = errors.New("missing required fields")
	// ErrNotFound reports that a device has no stored reading or alert. It is
	// an expected query outcome, not a failure.
	ErrNotFound = errors.New("not found")
)
