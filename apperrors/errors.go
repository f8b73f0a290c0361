// apperrors/errors.go - error kinds shared by services and handlers
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized         = fmt.Errorf("authentication required")
	ErrVerificationRequired = fmt.Errorf("verification required")
	ErrBlocked              = fmt.Errorf("blocked")
	ErrForbiddenRole        = fmt.Errorf("operation not permitted for this role")
	ErrNDARequired          = fmt.Errorf("nda acceptance required")
	ErrDuplicatePending     = fmt.Errorf("a pending expression of interest already exists")
	ErrDuplicateApplication = fmt.Errorf("this team has already applied to this opportunity")
	ErrNotFound             = fmt.Errorf("not found")
	ErrInvalidTransition    = fmt.Errorf("invalid state transition")
	ErrInvalidInput         = fmt.Errorf("invalid input")
)

// Kind returns the machine-readable error code handlers put in responses,
// so callers can branch (prompt NDA acceptance vs. show a hard block).
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrVerificationRequired):
		return "forbidden_verification"
	case errors.Is(err, ErrBlocked):
		return "forbidden_blocked"
	case errors.Is(err, ErrForbiddenRole):
		return "forbidden_role"
	case errors.Is(err, ErrNDARequired):
		return "nda_required"
	case errors.Is(err, ErrDuplicatePending):
		return "duplicate_pending"
	case errors.Is(err, ErrDuplicateApplication):
		return "duplicate_application"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_state_transition"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal_error"
	}
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrVerificationRequired),
		errors.Is(err, ErrBlocked),
		errors.Is(err, ErrForbiddenRole):
		return 403
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrNDARequired),
		errors.Is(err, ErrDuplicatePending),
		errors.Is(err, ErrDuplicateApplication),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidInput):
		return 400
	default:
		return 500
	}
}
