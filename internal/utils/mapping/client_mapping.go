package mapping

import (
	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/models"
)

// ToModelClient converts a domain Client to a model Client
func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:        d.ClientID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		DNI:             d.DNI,
		CUIL:            d.CUIL,
		GenderID:        d.GenderID,
		MaritalStatusID: d.MaritalStatusID,
		NationalityID:   d.NationalityID,
		ProvinceID:      d.ProvinceID,
		CityID:          d.CityID,
		Street:          d.Street,
		IsActive:        d.IsActive,
		StatusDate:      d.StatusDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClient converts a model Client to a domain Client
func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:        m.ClientID,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		DNI:             m.DNI,
		CUIL:            m.CUIL,
		GenderID:        m.GenderID,
		MaritalStatusID: m.MaritalStatusID,
		NationalityID:   m.NationalityID,
		ProvinceID:      m.ProvinceID,
		CityID:          m.CityID,
		Street:          m.Street,
		IsActive:        m.IsActive,
		StatusDate:      m.StatusDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientSlice converts a slice of model Clients to domain Clients
func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}

// ToModelClientPhone converts a domain ClientPhone to a model ClientPhone
func ToModelClientPhone(d domain.ClientPhone) models.ClientPhone {
	return models.ClientPhone{
		PhoneID:     d.PhoneID,
		ClientID:    d.ClientID,
		Number:      d.Number,
		Kind:        d.Kind,
		ArchivedAt:  d.ArchivedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClientPhone converts a model ClientPhone to a domain ClientPhone
func ToDomainClientPhone(m models.ClientPhone) domain.ClientPhone {
	return domain.ClientPhone{
		PhoneID:     m.PhoneID,
		ClientID:    m.ClientID,
		Number:      m.Number,
		Kind:        m.Kind,
		ArchivedAt:  m.ArchivedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientPhoneSlice converts model ClientPhones to domain ones
func ToDomainClientPhoneSlice(ms []models.ClientPhone) []domain.ClientPhone {
	ds := make([]domain.ClientPhone, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClientPhone(m)
	}
	return ds
}

// ToModelClientAddress converts a domain ClientAddress to a model ClientAddress
func ToModelClientAddress(d domain.ClientAddress) models.ClientAddress {
	return models.ClientAddress{
		AddressID:   d.AddressID,
		ClientID:    d.ClientID,
		Street:      d.Street,
		Number:      d.Number,
		Floor:       d.Floor,
		CityID:      d.CityID,
		ProvinceID:  d.ProvinceID,
		PostalCode:  d.PostalCode,
		ArchivedAt:  d.ArchivedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainClientAddress converts a model ClientAddress to a domain ClientAddress
func ToDomainClientAddress(m models.ClientAddress) domain.ClientAddress {
	return domain.ClientAddress{
		AddressID:   m.AddressID,
		ClientID:    m.ClientID,
		Street:      m.Street,
		Number:      m.Number,
		Floor:       m.Floor,
		CityID:      m.CityID,
		ProvinceID:  m.ProvinceID,
		PostalCode:  m.PostalCode,
		ArchivedAt:  m.ArchivedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainClientAddressSlice converts model ClientAddresses to domain ones
func ToDomainClientAddressSlice(ms []models.ClientAddress) []domain.ClientAddress {
	ds := make([]domain.ClientAddress, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClientAddress(m)
	}
	return ds
}

// ToModelEmploymentRecord converts a domain EmploymentRecord to a model one
func ToModelEmploymentRecord(d domain.EmploymentRecord) models.EmploymentRecord {
	return models.EmploymentRecord{
		EmploymentID:  d.EmploymentID,
		ClientID:      d.ClientID,
		Employer:      d.Employer,
		Position:      d.Position,
		MonthlyIncome: d.MonthlyIncome,
		Since:         d.Since,
		ArchivedAt:    d.ArchivedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmploymentRecord converts a model EmploymentRecord to a domain one
func ToDomainEmploymentRecord(m models.EmploymentRecord) domain.EmploymentRecord {
	return domain.EmploymentRecord{
		EmploymentID:  m.EmploymentID,
		ClientID:      m.ClientID,
		Employer:      m.Employer,
		Position:      m.Position,
		MonthlyIncome: m.MonthlyIncome,
		Since:         m.Since,
		ArchivedAt:    m.ArchivedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEmploymentRecordSlice converts model EmploymentRecords to domain ones
func ToDomainEmploymentRecordSlice(ms []models.EmploymentRecord) []domain.EmploymentRecord {
	ds := make([]domain.EmploymentRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEmploymentRecord(m)
	}
	return ds
}
