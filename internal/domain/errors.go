package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every rejected write, whatever the field-level reason.
	ErrValidation = errors.New("validation failed")

	ErrRequired      = errors.New("is required")
	ErrDuplicate     = errors.New("must be unique")
	ErrInvalidStatus = errors.New("must be one of active, inactive")
	ErrInvalidID     = errors.New("is not a valid identifier")
	ErrEmptyUpdate   = errors.New("no fields to update")

	ErrDepartmentNotFound = errors.New("department not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
)

// FieldError describes why a single field was rejected.
// It matches both ErrValidation and its Reason through errors.Is.
type FieldError struct {
	Field  string
	Reason error
	Value  any
}

// NewFieldError builds a FieldError.
func NewFieldError(field string, reason error, value any) *FieldError {
	return &FieldError{Field: field, Reason: reason, Value: value}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %v", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrValidation, e.Reason}
}

// FieldErrors flattens err into the FieldErrors it carries, including joined errors.
func FieldErrors(err error) []*FieldError {
	switch e := err.(type) {
	case nil:
		return nil
	case *FieldError:
		return []*FieldError{e}
	case interface{ Unwrap() []error }:
		var out []*FieldError
		for _, inner := range e.Unwrap() {
			out = append(out, FieldErrors(inner)...)
		}
		return out
	case interface{ Unwrap() error }:
		return FieldErrors(e.Unwrap())
	}
	return nil
}
