package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPinValidator_ValidatePin(t *testing.T) {
	validator := NewPinValidator()

	tests := []struct {
		name        string
		pin         string
		wantErr     bool
		expectedErr string
	}{
		{name: "four digits", pin: "1234"},
		{name: "eight digits", pin: "12345678"},
		{name: "too short", pin: "123", wantErr: true, expectedErr: "pin must be 4 to 8 digits"},
		{name: "too long", pin: "123456789", wantErr: true, expectedErr: "pin must be 4 to 8 digits"},
		{name: "letters", pin: "12a4", wantErr: true, expectedErr: "pin can only contain digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePin(tt.pin)
			if tt.wantErr {
				assert.EqualError(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPinValidator_ValidateProfile(t *testing.T) {
	validator := NewPinValidator()

	assert.NoError(t, validator.ValidateProfile("Petr", "1234"))
	assert.EqualError(t, validator.ValidateProfile(" ", "1234"), "name must not be empty")
	assert.EqualError(t, validator.ValidateProfile(strings.Repeat("ř", 65), "1234"), "name must be at most 64 characters")
	assert.ErrorContains(t, validator.ValidateProfile("Petr", "1"), "pin validation failed")
}
