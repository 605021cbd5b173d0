package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLocalPart(t *testing.T) {
	tests := []struct {
		name    string
		local   string
		wantErr error
	}{
		{"Valid simple", "hello", nil},
		{"Valid with numbers", "user123", nil},
		{"Valid with dot", "first.last", nil},
		{"Valid with underscore", "first_last", nil},
		{"Valid with dash", "first-last", nil},
		{"Invalid - empty", "", ErrLocalPartTooLong},
		{"Invalid - too long", strings.Repeat("a", 65), ErrLocalPartTooLong},
		{"Invalid - leading dot", ".user", ErrInvalidLocalPart},
		{"Invalid - trailing dash", "user-", ErrInvalidLocalPart},
		{"Invalid - space", "us er", ErrInvalidLocalPart},
		{"Invalid - at sign", "us@er", ErrInvalidLocalPart},
		{"Invalid - unicode", "usér", ErrInvalidLocalPart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLocalPart(tt.local)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr error
	}{
		{"Valid address", "test@example.com", nil},
		{"Valid with subdomain", "user@mail.example.com", nil},
		{"Valid with dot", "first.last@example.com", nil},
		{"Invalid - no at sign", "testexample.com", ErrInvalidAddress},
		{"Invalid - no domain", "test@", ErrInvalidAddress},
		{"Invalid - no local part", "@example.com", ErrInvalidAddress},
		{"Invalid - empty", "", ErrInvalidAddress},
		{"Invalid - spaces", "te st@example.com", ErrInvalidAddress},
		{"Invalid - too long", strings.Repeat("a", 250) + "@example.com", ErrAddressTooLong},
		{"Invalid - bad local part", "user+tag@example.com", ErrInvalidLocalPart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.address)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeAddress("  User@Example.COM "))
	assert.Equal(t, "", NormalizeAddress("   "))
}
