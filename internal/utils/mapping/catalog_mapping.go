package mapping

import (
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/models"
)

// ToModelCreditType converts a domain CreditType to a model CreditType
func ToModelCreditType(d domain.CreditType) models.CreditType {
	return models.CreditType{
		CreditTypeID:   d.CreditTypeID,
		Name:           d.Name,
		ScheduleMethod: string(d.ScheduleMethod),
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCreditType converts a model CreditType to a domain CreditType
func ToDomainCreditType(m models.CreditType) domain.CreditType {
	return domain.CreditType{
		CreditTypeID:   m.CreditTypeID,
		Name:           m.Name,
		ScheduleMethod: domain.ScheduleMethod(m.ScheduleMethod),
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCreditTypeSlice converts model CreditTypes to domain ones
func ToDomainCreditTypeSlice(ms []models.CreditType) []domain.CreditType {
	ds := make([]domain.CreditType, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCreditType(m)
	}
	return ds
}

// ToModelCollectionType converts a domain CollectionType to a model CollectionType
func ToModelCollectionType(d domain.CollectionType) models.CollectionType {
	return models.CollectionType{
		CollectionTypeID: d.CollectionTypeID,
		Code:             d.Code,
		Name:             d.Name,
		IsWaiver:         d.IsWaiver,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCollectionType converts a model CollectionType to a domain CollectionType
func ToDomainCollectionType(m models.CollectionType) domain.CollectionType {
	return domain.CollectionType{
		CollectionTypeID: m.CollectionTypeID,
		Code:             m.Code,
		Name:             m.Name,
		IsWaiver:         m.IsWaiver,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCollectionTypeSlice converts model CollectionTypes to domain ones
func ToDomainCollectionTypeSlice(ms []models.CollectionType) []domain.CollectionType {
	ds := make([]domain.CollectionType, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCollectionType(m)
	}
	return ds
}

// ToModelBusinessLine converts a domain BusinessLine to a model BusinessLine
func ToModelBusinessLine(d domain.BusinessLine) models.BusinessLine {
	return models.BusinessLine{
		BusinessLineID: d.BusinessLineID,
		Name:           d.Name,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBusinessLine converts a model BusinessLine to a domain BusinessLine
func ToDomainBusinessLine(m models.BusinessLine) domain.BusinessLine {
	return domain.BusinessLine{
		BusinessLineID: m.BusinessLineID,
		Name:           m.Name,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBusinessLineSlice converts model BusinessLines to domain ones
func ToDomainBusinessLineSlice(ms []models.BusinessLine) []domain.BusinessLine {
	ds := make([]domain.BusinessLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBusinessLine(m)
	}
	return ds
}

// ToModelOrganism converts a domain Organism to a model Organism
func ToModelOrganism(d domain.Organism) models.Organism {
	return models.Organism{
		OrganismID:     d.OrganismID,
		Name:           d.Name,
		BusinessLineID: d.BusinessLineID,
		CityID:         d.CityID,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrganism converts a model Organism to a domain Organism
func ToDomainOrganism(m models.Organism) domain.Organism {
	return domain.Organism{
		OrganismID:     m.OrganismID,
		Name:           m.Name,
		BusinessLineID: m.BusinessLineID,
		CityID:         m.CityID,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOrganismSlice converts model Organisms to domain ones
func ToDomainOrganismSlice(ms []models.Organism) []domain.Organism {
	ds := make([]domain.Organism, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrganism(m)
	}
	return ds
}
