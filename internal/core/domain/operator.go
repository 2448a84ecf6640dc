package domain

import "time"

// Operator is a back-office user of the ledger service.
type Operator struct {
	OperatorID string `json:"operatorID"` // Primary Key (UUID)
	Username   string `json:"username"`   // Unique login name
	Name       string `json:"name"`
	Email      string `json:"email"`

	// Credential material, never serialized outward.
	PasswordHash       string     `json:"-"`
	GoogleID           string     `json:"-"` // Set when the operator signs in with Google
	RefreshTokenHash   string     `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete
}

// IsDeleted reports whether the operator has been soft deleted.
func (o *Operator) IsDeleted() bool {
	return o.DeletedAt != nil
}

// GoogleUserInfo mirrors the Google OAuth2 v2 userinfo response.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}
