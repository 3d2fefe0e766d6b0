package usecase

import "errors"

// Per-send validation failures. Counted as errors by the orchestrator but
// never abort a batch.
var (
	ErrTemplateNotFound   = &DomainError{Code: "template_not_found", Message: "template not found"}
	ErrInvalidPhoneNumber = &DomainError{Code: "invalid_phone_number", Message: "invalid phone number"}
)

// DomainError is a business-rule failure the caller can act on.
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

// TechnicalError is an infrastructure failure (store or provider
// unavailable, transport refusal).
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
