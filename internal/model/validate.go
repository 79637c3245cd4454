package model

import (
	"fmt"
	"math"
	"strings"
)

const (
	maxNameLength        = 120
	maxDescriptionLength = 1000
	maxPrice             = 9_999_999.99
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateProduct checks a Product for constraint violations. It returns a
// *ValidationError if any rules fail, or nil if the product is valid.
// Validation runs before any transport call is made, so an invalid draft
// never reaches the server.
func ValidateProduct(p *Product) error {
	var ve ValidationError

	name := strings.TrimSpace(p.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > maxNameLength {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "name",
			Message: fmt.Sprintf("must be %d characters or fewer", maxNameLength),
		})
	}

	if len([]rune(p.Description)) > maxDescriptionLength {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("must be %d characters or fewer", maxDescriptionLength),
		})
	}

	// Price: positive, bounded, representable with two decimals.
	switch {
	case math.IsNaN(p.Price) || math.IsInf(p.Price, 0):
		ve.Errors = append(ve.Errors, FieldError{Field: "price", Message: "must be a finite number"})
	case p.Price <= 0:
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "price",
			Message: fmt.Sprintf("must be positive, got %.2f", p.Price),
		})
	case p.Price > maxPrice:
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "price",
			Message: fmt.Sprintf("must be at most %.2f", float64(maxPrice)),
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
