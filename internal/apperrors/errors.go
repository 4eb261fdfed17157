package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested mutation conflicts with current state.
var ErrConflict = errors.New("conflict with current state")

// ErrHasDependentTransactions indicates an account cannot be deleted because
// transactions still reference it as source or destination. It wraps
// ErrConflict, so callers may match either sentinel.
var ErrHasDependentTransactions = fmt.Errorf("%w: account has dependent transactions", ErrConflict)
