package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is the borrower. Demographic attributes are opaque references into
// the external reference-data service; the ledger never interprets them.
type Client struct {
	ClientID        string     `json:"clientID"`  // Primary Key (UUID)
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	DNI             string     `json:"dni"`  // National document number, digits only
	CUIL            string     `json:"cuil"` // Tax identifier with mod-11 check digit
	GenderID        string     `json:"genderID"`        // Nullable reference lookup
	MaritalStatusID string     `json:"maritalStatusID"` // Nullable reference lookup
	NationalityID   string     `json:"nationalityID"`   // Nullable reference lookup
	ProvinceID      string     `json:"provinceID"`      // Nullable reference lookup
	CityID          string     `json:"cityID"`          // Nullable reference lookup
	Street          string     `json:"street"`          // Main address line
	IsActive        bool       `json:"isActive"`
	StatusDate      *time.Time `json:"statusDate,omitempty"` // Date of the last lifecycle change
	AuditFields
}

// ClientPhone is a contact number owned by a client.
type ClientPhone struct {
	PhoneID    string     `json:"phoneID"`  // Primary Key (UUID)
	ClientID   string     `json:"clientID"` // FK -> clients.client_id (Not Null)
	Number     string     `json:"number"`
	Kind       string     `json:"kind"` // e.g. "mobile", "home", "work"
	ArchivedAt *time.Time `json:"archivedAt,omitempty"` // Set when the owning client is deactivated
	AuditFields
}

// ClientAddress is an additional address owned by a client.
type ClientAddress struct {
	AddressID  string     `json:"addressID"` // Primary Key (UUID)
	ClientID   string     `json:"clientID"`  // FK -> clients.client_id (Not Null)
	Street     string     `json:"street"`
	Number     string     `json:"number"`
	Floor      string     `json:"floor"` // Nullable
	CityID     string     `json:"cityID"`     // Nullable reference lookup
	ProvinceID string     `json:"provinceID"` // Nullable reference lookup
	PostalCode string     `json:"postalCode"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	AuditFields
}

// EmploymentRecord captures a client's employment situation at capture time.
type EmploymentRecord struct {
	EmploymentID  string          `json:"employmentID"` // Primary Key (UUID)
	ClientID      string          `json:"clientID"`     // FK -> clients.client_id (Not Null)
	Employer      string          `json:"employer"`
	Position      string          `json:"position"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	Since         *time.Time      `json:"since,omitempty"` // Nullable start date
	ArchivedAt    *time.Time      `json:"archivedAt,omitempty"`
	AuditFields
}
