package apperrors

import "errors"

// ErrUnauthenticated indicates that no principal could be resolved for the request.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden indicates that the principal was resolved but policy denies the action.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound indicates that a requested resource could not be found.
// Reads of records a STAFF principal does not own deliberately map here too,
// so existence is never revealed through the read path.
var ErrNotFound = errors.New("resource not found")

// ErrInvalidState indicates a lifecycle transition that is illegal from the
// entity's current state, including conditional updates that matched zero rows
// because another request moved the state first.
var ErrInvalidState = errors.New("invalid state transition")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")
