package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhoneNumber strips formatting and returns an E.164 US number.
// Ten digits get the country code prepended; anything that does not end up
// as eleven digits starting with 1 is rejected before any provider call.
func NormalizePhoneNumber(phone string) (string, error) {
	cleaned := nonDigits.ReplaceAllString(phone, "")

	if len(cleaned) == 10 {
		cleaned = "1" + cleaned
	}

	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "1") {
		return "+" + cleaned, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPhoneNumber, phone)
}

// ValidateCaptureLead checks the add-lead input: a lead needs a name and at
// least one reachable contact field.
func ValidateCaptureLead(name, email, phone string) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}

	if strings.TrimSpace(email) == "" && strings.TrimSpace(phone) == "" {
		errs = append(errs, ValidationError{"contact", "email or phone is required"})
		return errs
	}

	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs = append(errs, ValidationError{"email", "is invalid"})
		}
	}
	if phone != "" {
		if _, err := NormalizePhoneNumber(phone); err != nil {
			errs = append(errs, ValidationError{"phone", "must be a valid US phone number"})
		}
	}

	return errs
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
