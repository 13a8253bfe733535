package domain

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates every way an asteroid record can be rejected.
type ErrorKind int

const (
	InvalidID ErrorKind = iota + 1
	InvalidDiameter
	InvalidVelocity
	MissingCloseApproachData
	InvalidField
	NonPhysicalValue
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidID:
		return "invalid_id"
	case InvalidDiameter:
		return "invalid_diameter"
	case InvalidVelocity:
		return "invalid_velocity"
	case MissingCloseApproachData:
		return "missing_close_approach_data"
	case InvalidField:
		return "invalid_field"
	case NonPhysicalValue:
		return "non_physical_value"
	default:
		return fmt.Sprintf("error_kind(%d)", int(k))
	}
}

// Category is the reporting bucket a failure is surfaced under.
type Category string

const (
	// CategoryInvalidInput covers malformed or out-of-range caller data.
	CategoryInvalidInput Category = "invalid_input"
	// CategoryInvalidDomainData covers well-formed but physically meaningless
	// or incomplete data.
	CategoryInvalidDomainData Category = "invalid_domain_data"
	// CategoryInternal is reserved for errors that are not DomainErrors.
	CategoryInternal Category = "internal_error"
)

// DomainError is a validation or domain failure. Field and Value carry the
// payload of the kinds that have one and are zero otherwise.
type DomainError struct {
	Kind  ErrorKind
	Field string
	Value float64
}

func (e *DomainError) Error() string {
	switch e.Kind {
	case InvalidID:
		return "invalid or empty asteroid ID"
	case InvalidDiameter:
		return fmt.Sprintf("invalid diameter: %v km (must be > 0)", e.Value)
	case InvalidVelocity:
		return fmt.Sprintf("invalid velocity magnitude: %v km/s (must be >= 0)", e.Value)
	case MissingCloseApproachData:
		return "missing close approach data for asteroid"
	case InvalidField:
		return fmt.Sprintf("invalid or missing field: %s", e.Field)
	case NonPhysicalValue:
		return fmt.Sprintf("non-physical value detected: %s = %v", e.Field, e.Value)
	default:
		return e.Kind.String()
	}
}

// Category reports the bucket this error belongs to. Every kind maps to
// exactly one category. A zero or unknown Kind is internal.
func (e *DomainError) Category() Category {
	switch e.Kind {
	case InvalidID, InvalidDiameter, InvalidVelocity, InvalidField:
		return CategoryInvalidInput
	case MissingCloseApproachData, NonPhysicalValue:
		return CategoryInvalidDomainData
	default:
		return CategoryInternal
	}
}

func ErrInvalidID() *DomainError { return &DomainError{Kind: InvalidID} }

func ErrInvalidDiameter(v float64) *DomainError {
	return &DomainError{Kind: InvalidDiameter, Field: "diameter_km", Value: v}
}

func ErrInvalidVelocity(v float64) *DomainError {
	return &DomainError{Kind: InvalidVelocity, Field: "velocity_kps", Value: v}
}

func ErrMissingCloseApproachData() *DomainError {
	return &DomainError{Kind: MissingCloseApproachData}
}

func ErrInvalidField(name string) *DomainError {
	return &DomainError{Kind: InvalidField, Field: name}
}

func ErrNonPhysicalValue(field string, v float64) *DomainError {
	return &DomainError{Kind: NonPhysicalValue, Field: field, Value: v}
}

// Classify maps any error to its reporting category. Wrapped DomainErrors
// are unwrapped; anything else is internal.
func Classify(err error) Category {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Category()
	}
	return CategoryInternal
}
