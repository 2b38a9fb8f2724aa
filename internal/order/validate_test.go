package order

import (
	"testing"

	"storefront/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		want   string
	}{
		{"missing name", func(f *Form) { f.Name = "" }, "All fields are required"},
		{"missing address", func(f *Form) { f.Address = "  " }, "All fields are required"},
		{"missing pincode beats bad phone", func(f *Form) {
			f.Pincode = ""
			f.Phone = "12345"
		}, "All fields are required"},
		{"short phone", func(f *Form) { f.Phone = "12345" }, "Phone must be 10 digits"},
		{"phone with spaces", func(f *Form) { f.Phone = "98765 4321" }, "Phone must be 10 digits"},
		{"bad pincode", func(f *Form) { f.Pincode = "4110" }, "Pincode must be 6 digits"},
		{"negative quantity", func(f *Form) { f.Quantity = -1 }, "Quantity must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := ValidateForm(f)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Message)
		})
	}

	assert.NoError(t, ValidateForm(validForm()))
}

func TestNewIntent(t *testing.T) {
	in, err := NewIntent(riceBag(), validForm())
	require.NoError(t, err)
	assert.Equal(t, 565.0, in.Breakdown.Total)
	assert.Equal(t, 25.0, in.Breakdown.GSTAmount)

	bad := validForm()
	bad.Phone = "12345"
	_, err = NewIntent(riceBag(), bad)
	assert.Equal(t, "Phone must be 10 digits", apperr.Message(err, ""))
}
