package usecase

import (
	"errors"
	"strings"
)

// Domain error codes. Handlers map them to HTTP statuses.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeForbidden      = "FORBIDDEN"
	CodePaywall        = "PAYWALL"
	CodeCouponInvalid  = "COUPON_INVALID"
	CodeSlotTaken      = "SLOT_TAKEN"
	CodeUnknownTrigger = "UNKNOWN_TRIGGER"
	CodeSelfReferral   = "SELF_REFERRAL"
	CodeNoVariants     = "NO_ACTIVE_VARIANTS"
	CodeDatabase       = "DATABASE_ERROR"
	CodeSealing        = "SEALING_ERROR"
	CodeRandomSource   = "RANDOM_SOURCE_ERROR"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func dbError(msg string, err error) error {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}

func notFound(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

// ValidationErrors is returned when request input fails field checks.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func validationResult(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return ValidationErrors(errs)
}
