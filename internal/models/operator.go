package models

import (
	"database/sql"
	"time"
)

// Operator maps to the operators table.
type Operator struct {
	OperatorID   string         `db:"operator_id"`
	Username     string         `db:"username"` // Unique
	PasswordHash string         `db:"password_hash"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	GoogleID     sql.NullString `db:"google_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh token material, single active token per operator.
	RefreshTokenHash       sql.NullString `db:"refresh_token_hash"`
	RefreshTokenExpiryTime sql.NullTime   `db:"refresh_token_expiry_time"`
}
