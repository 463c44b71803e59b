// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/strichliste/bootstrap/internal/errors"
)

var (
	// identifierRegex accepts names that are safe as a single path component.
	identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength validates a password against a minimum length and optional
// character class requirements.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate checks if the password meets the configured requirements
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if utf8.RuneCountInString(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}

	classes := []struct {
		required bool
		present  func(rune) bool
		code     string
		message  string
	}{
		{p.RequireUpper, unicode.IsUpper, "validation_password_uppercase", "an uppercase letter"},
		{p.RequireLower, unicode.IsLower, "validation_password_lowercase", "a lowercase letter"},
		{p.RequireNumber, unicode.IsNumber, "validation_password_number", "a number"},
		{p.RequireSpecial, isSpecial, "validation_password_special", "a special character"},
	}
	for _, class := range classes {
		if class.required && !strings.ContainsFunc(s, class.present) {
			return validation.NewError(class.code, "password must contain at least "+class.message)
		}
	}

	return nil
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Identifier validates a short name usable as a filename component: letters,
// digits, underscore and hyphen, 1 to 64 characters.
var Identifier = validation.NewStringRuleWithError(
	func(s string) bool {
		return identifierRegex.MatchString(s)
	},
	validation.NewError(
		"validation_identifier",
		"must contain only letters, digits, '_' or '-' (at most 64 characters)",
	),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
