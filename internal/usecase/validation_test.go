package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"formatted us number", "(415) 555-1234", "+14155551234", false},
		{"bare ten digits", "4155551234", "+14155551234", false},
		{"eleven digits with country code", "14155551234", "+14155551234", false},
		{"already e164", "+14155551234", "+14155551234", false},
		{"dots and dashes", "415.555-1234", "+14155551234", false},
		{"too short", "123", "", true},
		{"eleven digits wrong country code", "24155551234", "", true},
		{"twelve digits", "441155551234", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhoneNumber(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhoneNumber)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateCaptureLead(t *testing.T) {
	t.Run("valid with both contacts", func(t *testing.T) {
		errs := ValidateCaptureLead("Sarah Chen", "sarah@example.com", "(415) 555-1234")
		assert.Empty(t, errs)
	})

	t.Run("valid with email only", func(t *testing.T) {
		errs := ValidateCaptureLead("Sarah Chen", "sarah@example.com", "")
		assert.Empty(t, errs)
	})

	t.Run("missing name", func(t *testing.T) {
		errs := ValidateCaptureLead("  ", "sarah@example.com", "")
		assert.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
	})

	t.Run("no contact at all", func(t *testing.T) {
		errs := ValidateCaptureLead("Sarah Chen", "", "")
		assert.Len(t, errs, 1)
		assert.Equal(t, "contact", errs[0].Field)
	})

	t.Run("bad email and bad phone", func(t *testing.T) {
		errs := ValidateCaptureLead("Sarah Chen", "not-an-email", "123")
		assert.Len(t, errs, 2)
	})
}
