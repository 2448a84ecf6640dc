package models

// CreditType maps to the credit_types table.
type CreditType struct {
	CreditTypeID   string `db:"credit_type_id"`
	Name           string `db:"name"` // Unique
	ScheduleMethod string `db:"schedule_method"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}

// CollectionType maps to the collection_types table.
type CollectionType struct {
	CollectionTypeID string `db:"collection_type_id"`
	Code             string `db:"code"` // Unique stable code
	Name             string `db:"name"`
	IsWaiver         bool   `db:"is_waiver"`
	IsActive         bool   `db:"is_active"`
	AuditFields
}

// BusinessLine maps to the business_lines table.
type BusinessLine struct {
	BusinessLineID string `db:"business_line_id"`
	Name           string `db:"name"` // Unique
	IsActive       bool   `db:"is_active"`
	AuditFields
}

// Organism maps to the organisms table.
type Organism struct {
	OrganismID     string `db:"organism_id"`
	Name           string `db:"name"` // Unique
	BusinessLineID string `db:"business_line_id"`
	CityID         string `db:"city_id"`
	IsActive       bool   `db:"is_active"`
	AuditFields
}
