package mapping

import (
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/models"
)

// ToModelPartner converts a domain BusinessPartner to a model BusinessPartner
func ToModelPartner(d domain.BusinessPartner) models.BusinessPartner {
	return models.BusinessPartner{
		PartnerID:   d.PartnerID,
		Name:        d.Name,
		TaxID:       d.TaxID,
		Email:       d.Email,
		Phone:       d.Phone,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPartner converts a model BusinessPartner to a domain BusinessPartner
func ToDomainPartner(m models.BusinessPartner) domain.BusinessPartner {
	return domain.BusinessPartner{
		PartnerID:   m.PartnerID,
		Name:        m.Name,
		TaxID:       m.TaxID,
		Email:       m.Email,
		Phone:       m.Phone,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPartnerSlice converts a slice of model BusinessPartners to domain ones
func ToDomainPartnerSlice(ms []models.BusinessPartner) []domain.BusinessPartner {
	ds := make([]domain.BusinessPartner, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPartner(m)
	}
	return ds
}

// ToModelPurchase converts a domain Purchase to a model Purchase
func ToModelPurchase(d domain.Purchase) models.Purchase {
	return models.Purchase{
		PurchaseID:  d.PurchaseID,
		PartnerID:   d.PartnerID,
		AnnualRate:  d.AnnualRate,
		Date:        d.Date,
		HasResource: d.HasResource,
		HasVAT:      d.HasVAT,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPurchase converts a model Purchase to a domain Purchase
func ToDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase{
		PurchaseID:  m.PurchaseID,
		PartnerID:   m.PartnerID,
		AnnualRate:  m.AnnualRate,
		Date:        m.Date,
		HasResource: m.HasResource,
		HasVAT:      m.HasVAT,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSale converts a domain Sale to a model Sale
func ToModelSale(d domain.Sale) models.Sale {
	return models.Sale{
		SaleID:      d.SaleID,
		PartnerID:   d.PartnerID,
		AnnualRate:  d.AnnualRate,
		Date:        d.Date,
		HasResource: d.HasResource,
		HasVAT:      d.HasVAT,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSale converts a model Sale to a domain Sale
func ToDomainSale(m models.Sale) domain.Sale {
	return domain.Sale{
		SaleID:      m.SaleID,
		PartnerID:   m.PartnerID,
		AnnualRate:  m.AnnualRate,
		Date:        m.Date,
		HasResource: m.HasResource,
		HasVAT:      m.HasVAT,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
