package mapping

import (
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/models"
)

// ToModelAuditFields copies the shared audit columns onto a storage model.
// Every persisted row carries these five fields for optimistic locking and
// attribution, so the per-entity mappers all delegate here.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
		Version:       d.Version,
	}
}

// ToDomainAuditFields is the inverse of ToModelAuditFields.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
		Version:       m.Version,
	}
}
