package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrIntegrityViolation indicates that stored data contradicts a structural
// invariant (a natural key mapped to two representations, overlapping
// dimension versions). Records hitting this are rejected for manual review,
// never silently overwritten.
var ErrIntegrityViolation = errors.New("integrity violation")

// ErrUpstreamUnavailable indicates that an external data provider kept
// failing after the bounded retry budget was spent. The affected source day
// is surfaced as a terminal failure to the orchestration layer.
var ErrUpstreamUnavailable = errors.New("upstream source unavailable")
