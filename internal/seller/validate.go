package seller

import (
	"regexp"
	"strings"

	"storefront/internal/apperr"
)

const MinPasswordLength = 6

var phonePattern = regexp.MustCompile(`^\d{10}$`)

func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

// ValidateRegistration runs the sign-up checks in the order the form reports
// them.
func ValidateRegistration(in RegisterInput) error {
	if strings.TrimSpace(in.FirstName) == "" ||
		strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		in.Password == "" ||
		strings.TrimSpace(in.Phone) == "" {
		return apperr.Invalid("", "All fields are required")
	}

	if !ValidPhone(in.Phone) {
		return apperr.Invalid("phone", "Phone number must be 10 digits")
	}

	if in.Password != in.ConfirmPassword {
		return apperr.Invalid("confirmPassword", "Passwords do not match")
	}

	if len(in.Password) < MinPasswordLength {
		return apperr.Invalid("password", "Password must be at least 6 characters")
	}

	return nil
}

func ValidateLogin(in LoginInput) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return apperr.Invalid("", "Email and password are required")
	}
	return nil
}

func ValidateUpdate(in UpdateInput) error {
	if in.Empty() {
		return apperr.Invalid("", "All fields are required")
	}

	for _, f := range []*string{in.FirstName, in.LastName, in.Email, in.Phone} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return apperr.Invalid("", "All fields are required")
		}
	}

	if in.Phone != nil && !ValidPhone(strings.TrimSpace(*in.Phone)) {
		return apperr.Invalid("phone", "Phone number must be 10 digits")
	}
	return nil
}
