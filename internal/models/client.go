package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client maps to the clients table. Demographic reference columns hold
// opaque identifiers resolved by the reference-data service.
type Client struct {
	ClientID        string     `db:"client_id"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	DNI             string     `db:"dni"`
	CUIL            string     `db:"cuil"`
	GenderID        string     `db:"gender_id"`
	MaritalStatusID string     `db:"marital_status_id"`
	NationalityID   string     `db:"nationality_id"`
	ProvinceID      string     `db:"province_id"`
	CityID          string     `db:"city_id"`
	Street          string     `db:"street"`
	IsActive        bool       `db:"is_active"`
	StatusDate      *time.Time `db:"status_date"`
	AuditFields
}

// ClientPhone maps to the client_phones table.
type ClientPhone struct {
	PhoneID    string     `db:"phone_id"`
	ClientID   string     `db:"client_id"`
	Number     string     `db:"number"`
	Kind       string     `db:"kind"`
	ArchivedAt *time.Time `db:"archived_at"`
	AuditFields
}

// ClientAddress maps to the client_addresses table.
type ClientAddress struct {
	AddressID  string     `db:"address_id"`
	ClientID   string     `db:"client_id"`
	Street     string     `db:"street"`
	Number     string     `db:"number"`
	Floor      string     `db:"floor"`
	CityID     string     `db:"city_id"`
	ProvinceID string     `db:"province_id"`
	PostalCode string     `db:"postal_code"`
	ArchivedAt *time.Time `db:"archived_at"`
	AuditFields
}

// EmploymentRecord maps to the employment_records table.
type EmploymentRecord struct {
	EmploymentID  string          `db:"employment_id"`
	ClientID      string          `db:"client_id"`
	Employer      string          `db:"employer"`
	Position      string          `db:"position"`
	MonthlyIncome decimal.Decimal `db:"monthly_income"`
	Since         *time.Time      `db:"since"`
	ArchivedAt    *time.Time      `db:"archived_at"`
	AuditFields
}
