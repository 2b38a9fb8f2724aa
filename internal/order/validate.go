package order

import (
	"regexp"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

func ValidateForm(f Form) error {
	if strings.TrimSpace(f.Name) == "" ||
		f.Phone == "" ||
		strings.TrimSpace(f.Address) == "" ||
		f.Pincode == "" {
		return apperr.Invalid("", "All fields are required")
	}

	if !phonePattern.MatchString(f.Phone) {
		return apperr.Invalid("phone", "Phone must be 10 digits")
	}

	if !pincodePattern.MatchString(f.Pincode) {
		return apperr.Invalid("pincode", "Pincode must be 6 digits")
	}

	if f.Quantity < 0 {
		return apperr.Invalid("quantity", "Quantity must not be negative")
	}
	return nil
}

// NewIntent validates f and prices it against it.
func NewIntent(it catalog.Item, f Form) (Intent, error) {
	if err := ValidateForm(f); err != nil {
		return Intent{}, err
	}
	return Intent{
		Kind:      it.Kind,
		Item:      it,
		Form:      f,
		Breakdown: it.Breakdown(),
	}, nil
}
