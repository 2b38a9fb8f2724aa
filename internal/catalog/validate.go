package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"storefront/internal/apperr"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 250
	MaxLocationLength    = 70
	MaxImageBytes        = 2 * 1024 * 1024
	ExpiryNone           = "NA"
)

var (
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	expiryPattern  = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])-(0[1-9]|1[0-2])-\d{4}$`)
)

// ValidPincode reports whether s is exactly six digits.
func ValidPincode(s string) bool { return pincodePattern.MatchString(s) }

// NormalizeExpiry maps any casing of "na" to ExpiryNone and trims dates.
func NormalizeExpiry(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, ExpiryNone) {
		return ExpiryNone
	}
	return s
}

// ValidateInput checks a new listing before it is sent anywhere.
func ValidateInput(kind Kind, in Input) error {
	if kind == KindMedicine {
		return validateMedicine(in)
	}

	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	loc := strings.TrimSpace(in.Location)
	pin := strings.TrimSpace(in.Pincode)

	if name == "" || desc == "" || in.Price == 0 || loc == "" || pin == "" {
		return apperr.Invalid("", "All fields are required")
	}
	return validateListing(kind, name, desc, loc, pin, in.Price)
}

func validateListing(kind Kind, name, desc, loc, pin string, price float64) error {
	label := "Product"
	descLabel := "Product details"
	if kind == KindService {
		label = "Service"
		descLabel = "Description"
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return apperr.Invalid("name", label+" name must not exceed 100 characters")
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return apperr.Invalid("description", descLabel+" must not exceed 250 characters")
	}
	if price <= 0 {
		return apperr.Invalid("price", "Price must be greater than 0")
	}
	if utf8.RuneCountInString(loc) > MaxLocationLength {
		return apperr.Invalid("location", "Address must not exceed 70 characters")
	}
	if !ValidPincode(pin) {
		return apperr.Invalid("pincode", "Pincode must be exactly 6 digits")
	}
	return nil
}

func validateMedicine(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Invalid("name", "Product name is required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) > MaxNameLength {
		return apperr.Invalid("name", "Product name must not exceed 100 characters")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperr.Invalid("description", "Description is required")
	}
	if in.MRP <= 0 {
		return apperr.Invalid("mrp", "Valid MRP is required")
	}
	if in.Price <= 0 {
		return apperr.Invalid("price", "Valid Price is required")
	}
	if in.GSTPercent < 0 || in.GSTPercent > 100 {
		return apperr.Invalid("gst", "GST must be between 0 and 100")
	}
	if in.DeliveryCharge < 0 {
		return apperr.Invalid("deliveryCharge", "Valid delivery charge is required")
	}
	if err := validateExpiry(in.Expiry); err != nil {
		return err
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return apperr.Invalid("imageUrl", "Image is required")
	}
	return nil
}

func validateExpiry(expiry string) error {
	expiry = NormalizeExpiry(expiry)
	if expiry == "" {
		return apperr.Invalid("expiry", "Expiry is required (use NA if no expiry)")
	}
	if expiry != ExpiryNone && !expiryPattern.MatchString(expiry) {
		return apperr.Invalid("expiry", "Expiry must be in DD-MM-YYYY format or NA")
	}
	return nil
}

// ValidatePatch checks only the fields a partial update carries.
func ValidatePatch(kind Kind, p Patch) error {
	if p.Empty() {
		return apperr.Invalid("", ErrNoFields.Error())
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return apperr.Invalid("name", "Name cannot be empty")
		}
		if utf8.RuneCountInString(name) > MaxNameLength {
			return apperr.Invalid("name", "Name must not exceed 100 characters")
		}
	}
	if p.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*p.Description)) > MaxDescriptionLength {
		return apperr.Invalid("description", "Description must not exceed 250 characters")
	}
	if p.Price != nil && *p.Price <= 0 {
		return apperr.Invalid("price", "Price must be greater than 0")
	}
	if p.MRP != nil && *p.MRP <= 0 {
		return apperr.Invalid("mrp", "Valid MRP is required")
	}
	if p.GSTPercent != nil && (*p.GSTPercent < 0 || *p.GSTPercent > 100) {
		return apperr.Invalid("gst", "GST must be between 0 and 100")
	}
	if p.DeliveryCharge != nil && *p.DeliveryCharge < 0 {
		return apperr.Invalid("deliveryCharge", "Valid delivery charge is required")
	}
	if p.Location != nil && utf8.RuneCountInString(strings.TrimSpace(*p.Location)) > MaxLocationLength {
		return apperr.Invalid("location", "Address must not exceed 70 characters")
	}
	if p.Pincode != nil && !ValidPincode(strings.TrimSpace(*p.Pincode)) {
		return apperr.Invalid("pincode", "Pincode must be exactly 6 digits")
	}
	if p.Expiry != nil && kind == KindMedicine {
		if err := validateExpiry(*p.Expiry); err != nil {
			return err
		}
	}
	return nil
}

// ValidateImage checks an upload before it leaves the client.
func ValidateImage(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return apperr.Invalid("image", "Please select an image file")
	}
	if size > MaxImageBytes {
		return apperr.Invalid("image", "Image must be 2MB or smaller")
	}
	return nil
}
