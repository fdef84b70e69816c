package handlers

import (
	"fmt"
	"regexp"
	"time"

	pkgauth "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/auth"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse represents a validation error with field-level details
type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Global validator instance (reused across all handlers)
var validate = newValidator()

var fullNamePattern = regexp.MustCompile(`^[\p{L}][\p{L} .'-]*$`)

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("full_name", func(fl validator.FieldLevel) bool {
		return fullNamePattern.MatchString(fl.Field().String())
	})

	// Rejects obviously bad passwords before the provider hop. The same
	// rules apply server-side in the identity layer.
	v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return pkgauth.ValidatePassword(fl.Field().String()) == nil
	})

	// birthdate accepts YYYY-MM-DD for a plausibly-aged account holder.
	v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		dob, err := time.Parse("2006-01-02", fl.Field().String())
		if err != nil {
			return false
		}
		age := time.Since(dob)
		return age > 13*365*24*time.Hour && age < 120*365*24*time.Hour
	})

	return v
}

// ValidateRequest validates a request struct using go-playground/validator
// Returns a user-friendly error message if validation fails
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return fmt.Errorf("validation failed: %s: %s",
				ve[0].Field(),
				formatValidationError(ve[0]))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "e164":
		return "must be a valid phone number in international format"
	case "full_name":
		return "must contain only letters, spaces, and common name punctuation"
	case "strong_password":
		return "must be 8-128 characters with upper case, lower case, and a digit"
	case "birthdate":
		return "must be a plausible date of birth in YYYY-MM-DD format"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
