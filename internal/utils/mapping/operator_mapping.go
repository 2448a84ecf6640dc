package mapping

import (
	"database/sql"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/models"
)

// ToModelOperator converts a domain Operator to a model Operator
func ToModelOperator(d domain.Operator) models.Operator {
	m := models.Operator{
		OperatorID:   d.OperatorID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Email:        d.Email,
		AuditFields:  ToModelAuditFields(d.AuditFields),
		DeletedAt:    d.DeletedAt,
	}
	if d.GoogleID != "" {
		m.GoogleID = sql.NullString{String: d.GoogleID, Valid: true}
	}
	if d.RefreshTokenHash != "" {
		m.RefreshTokenHash = sql.NullString{String: d.RefreshTokenHash, Valid: true}
	}
	if d.RefreshTokenExpiry != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiry, Valid: true}
	}
	return m
}

// ToDomainOperator converts a model Operator to a domain Operator
func ToDomainOperator(m models.Operator) domain.Operator {
	d := domain.Operator{
		OperatorID:   m.OperatorID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Email:        m.Email,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		DeletedAt:    m.DeletedAt,
	}
	if m.GoogleID.Valid {
		d.GoogleID = m.GoogleID.String
	}
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiry = &t
	}
	return d
}

// ToDomainOperatorSlice converts model Operators to domain Operators
func ToDomainOperatorSlice(ms []models.Operator) []domain.Operator {
	ds := make([]domain.Operator, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOperator(m)
	}
	return ds
}
