package apperr

import (
	"errors"
	"fmt"
)

// ValidationError signals missing or malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotEligibleError signals a status change attempted on a requirement that is
// not currently applicable to the deal.
type NotEligibleError struct {
	Subject string
	Reason  string
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("%s not eligible: %s", e.Subject, e.Reason)
}

func NewNotEligible(subject, reason string) error {
	return &NotEligibleError{Subject: subject, Reason: reason}
}

// InvalidStateTransitionError signals a transition attempted from a state that
// forbids it.
type InvalidStateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition %s -> %s", e.Entity, e.From, e.To)
}

func NewInvalidTransition(entity, from, to string) error {
	return &InvalidStateTransitionError{Entity: entity, From: from, To: to}
}

// NotFoundError signals an unknown deal/requirement/release/partner id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotEligible(err error) bool {
	var target *NotEligibleError
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *InvalidStateTransitionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
