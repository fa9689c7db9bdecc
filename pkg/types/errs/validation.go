package errs

import "fmt"

// ValidationError aggregates the failures of independent sub-operations
// into one Validation-kind error, e.g. a batch delete where several keys
// failed.
type ValidationError struct {
	Code        string
	Description string
	Kind        Kind

	Errors []*Error
}

func NewValidationError(errors []*Error) *ValidationError {
	return &ValidationError{
		Code:        "Validation.General",
		Description: "One or more validation errors occurred",
		Kind:        KindValidation,
		Errors:      errors,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%d errors)", e.Code, e.Description, len(e.Errors))
}

// Unwrap exposes the children to errors.Is/As chain walking.
func (e *ValidationError) Unwrap() []error {
	unwrapped := make([]error, len(e.Errors))
	for i, child := range e.Errors {
		unwrapped[i] = child
	}
	return unwrapped
}
