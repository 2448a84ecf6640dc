package mapping

import (
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/models"
)

// ToModelCredit converts a domain Credit to a model Credit
func ToModelCredit(d domain.Credit) models.Credit {
	return models.Credit{
		CreditID:         d.CreditID,
		OriginRef:        d.OriginRef,
		ClientID:         d.ClientID,
		CreditTypeID:     d.CreditTypeID,
		OrganismID:       d.OrganismID,
		PurchaseID:       d.PurchaseID,
		SaleID:           d.SaleID,
		OriginCreditID:   d.OriginCreditID,
		DisbursementDate: d.DisbursementDate,
		FirstDueDate:     d.FirstDueDate,
		AmountDisbursed:  d.AmountDisbursed,
		Capital:          d.Capital,
		AnnualRate:       d.AnnualRate,
		Term:             d.Term,
		Status:           string(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCredit converts a model Credit to a domain Credit
func ToDomainCredit(m models.Credit) domain.Credit {
	return domain.Credit{
		CreditID:         m.CreditID,
		OriginRef:        m.OriginRef,
		ClientID:         m.ClientID,
		CreditTypeID:     m.CreditTypeID,
		OrganismID:       m.OrganismID,
		PurchaseID:       m.PurchaseID,
		SaleID:           m.SaleID,
		OriginCreditID:   m.OriginCreditID,
		DisbursementDate: m.DisbursementDate,
		FirstDueDate:     m.FirstDueDate,
		AmountDisbursed:  m.AmountDisbursed,
		Capital:          m.Capital,
		AnnualRate:       m.AnnualRate,
		Term:             m.Term,
		Status:           domain.CreditStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCreditSlice converts a slice of model Credits to domain Credits
func ToDomainCreditSlice(ms []models.Credit) []domain.Credit {
	ds := make([]domain.Credit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCredit(m)
	}
	return ds
}

// ToModelInstallment converts a domain Installment to a model Installment
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID:  d.InstallmentID,
		CreditID:       d.CreditID,
		InstNum:        d.InstNum,
		DueDate:        d.DueDate,
		OwnerID:        d.OwnerID,
		Capital:        d.Capital,
		Interest:       d.Interest,
		Tax:            d.Tax,
		Total:          d.Total,
		CollectedTotal: d.CollectedTotal,
		SettlementDate: d.SettlementDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstallment converts a model Installment to a domain Installment
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID:  m.InstallmentID,
		CreditID:       m.CreditID,
		InstNum:        m.InstNum,
		DueDate:        m.DueDate,
		OwnerID:        m.OwnerID,
		Capital:        m.Capital,
		Interest:       m.Interest,
		Tax:            m.Tax,
		Total:          m.Total,
		CollectedTotal: m.CollectedTotal,
		SettlementDate: m.SettlementDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstallmentSlice converts model Installments to domain Installments
func ToDomainInstallmentSlice(ms []models.Installment) []domain.Installment {
	ds := make([]domain.Installment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstallment(m)
	}
	return ds
}

// ToModelCollection converts a domain Collection to a model Collection
func ToModelCollection(d domain.Collection) models.Collection {
	return models.Collection{
		CollectionID:     d.CollectionID,
		InstallmentID:    d.InstallmentID,
		CreditID:         d.CreditID,
		CollectionTypeID: d.CollectionTypeID,
		CollectionDate:   d.CollectionDate,
		Capital:          d.Capital,
		Interest:         d.Interest,
		Tax:              d.Tax,
		Total:            d.Total,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCollection converts a model Collection to a domain Collection
func ToDomainCollection(m models.Collection) domain.Collection {
	return domain.Collection{
		CollectionID:     m.CollectionID,
		InstallmentID:    m.InstallmentID,
		CreditID:         m.CreditID,
		CollectionTypeID: m.CollectionTypeID,
		CollectionDate:   m.CollectionDate,
		Capital:          m.Capital,
		Interest:         m.Interest,
		Tax:              m.Tax,
		Total:            m.Total,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCollectionSlice converts model Collections to domain Collections
func ToDomainCollectionSlice(ms []models.Collection) []domain.Collection {
	ds := make([]domain.Collection, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCollection(m)
	}
	return ds
}
