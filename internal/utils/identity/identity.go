// Package identity validates Argentine national identifiers (DNI and CUIL)
// before they reach the ledger. Canonical form is digits only.
package identity

import (
	"fmt"
	"strings"

	"github.com/credisur/creditledger/internal/apperrors"
)

// cuilWeights are the mod-11 checksum weights applied to the first ten
// digits of a CUIL/CUIT.
var cuilWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// NormalizeCUIL strips separators from a CUIL/CUIT, validates its length and
// mod-11 check digit, and returns the canonical 11-digit form.
func NormalizeCUIL(raw string) (string, error) {
	s := digitsOnly(raw)
	if len(s) != 11 {
		return "", fmt.Errorf("%w: CUIL %q must have 11 digits", apperrors.ErrValidation, raw)
	}

	sum := 0
	for i, w := range cuilWeights {
		sum += int(s[i]-'0') * w
	}
	check := 11 - sum%11
	switch check {
	case 11:
		check = 0
	case 10:
		check = 9
	}
	if check != int(s[10]-'0') {
		return "", fmt.Errorf("%w: CUIL %q has an invalid check digit", apperrors.ErrValidation, raw)
	}
	return s, nil
}

// NormalizeDNI strips separators from a DNI and returns the canonical form
// without leading zeros. A DNI has at most 8 digits.
func NormalizeDNI(raw string) (string, error) {
	s := digitsOnly(raw)
	if s == "" || len(s) > 8 {
		return "", fmt.Errorf("%w: DNI %q must have 1 to 8 digits", apperrors.ErrValidation, raw)
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "", fmt.Errorf("%w: DNI %q must not be zero", apperrors.ErrValidation, raw)
	}
	return s, nil
}

// ValidateDNICUIL normalizes both identifiers and verifies that the DNI
// matches the CUIL's embedded document number (digits 3 to 10).
func ValidateDNICUIL(dni, cuil string) (string, string, error) {
	normCUIL, err := NormalizeCUIL(cuil)
	if err != nil {
		return "", "", err
	}
	normDNI, err := NormalizeDNI(dni)
	if err != nil {
		return "", "", err
	}
	embedded := strings.TrimLeft(normCUIL[2:10], "0")
	if normDNI != embedded {
		return "", "", fmt.Errorf("%w: DNI %s does not match CUIL %s", apperrors.ErrValidation, normDNI, normCUIL)
	}
	return normDNI, normCUIL, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
