package identity_test

import (
	"testing"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/utils/identity"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCUIL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain digits", "20123456786", "20123456786", false},
		{"hyphenated", "20-12345678-6", "20123456786", false},
		{"check digit nine from mod result ten", "20000000019", "20000000019", false},
		{"bad check digit", "20123456785", "", true},
		{"too short", "2012345678", "", true},
		{"too long", "201234567860", "", true},
		{"empty", "", "", true},
		{"letters only", "not-a-cuil", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := identity.NormalizeCUIL(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDNI(t *testing.T) {
	got, err := identity.NormalizeDNI("12.345.678")
	assert.NoError(t, err)
	assert.Equal(t, "12345678", got)

	got, err = identity.NormalizeDNI("00123456")
	assert.NoError(t, err)
	assert.Equal(t, "123456", got)

	_, err = identity.NormalizeDNI("123456789")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = identity.NormalizeDNI("0")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateDNICUIL(t *testing.T) {
	dni, cuil, err := identity.ValidateDNICUIL("12345678", "20-12345678-6")
	assert.NoError(t, err)
	assert.Equal(t, "12345678", dni)
	assert.Equal(t, "20123456786", cuil)

	// DNI not embedded in the CUIL.
	_, _, err = identity.ValidateDNICUIL("12345679", "20-12345678-6")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
