package domain

// ScheduleMethod selects the amortization plan used for a credit product.
type ScheduleMethod string

const (
	ScheduleFrench  ScheduleMethod = "FRENCH"  // Equal-total annuity
	ScheduleGerman  ScheduleMethod = "GERMAN"  // Equal-capital, declining total
	SchedulePenalty ScheduleMethod = "PENALTY" // Single installment, surcharge as pure finance charge
)

// CreditType classifies a credit product. Name is unique.
type CreditType struct {
	CreditTypeID   string         `json:"creditTypeID"` // Primary Key (UUID)
	Name           string         `json:"name"`         // Unique product name
	ScheduleMethod ScheduleMethod `json:"scheduleMethod"`
	IsActive       bool           `json:"isActive"`
	AuditFields
}

// Well-known collection type codes seeded by migrations. The ledger treats
// these as data; only IsWaiver changes arithmetic meaning (no cash received).
const (
	CollectionOrdinary = "COMUN"        // Ordinary payment
	CollectionAdvance  = "ANTICIPADA"   // Early-payoff capital payment
	CollectionBonus    = "BONIFICACION" // Waived interest+tax on early payoff
	CollectionPenalty  = "PENALTY"      // Delinquency surcharge payment
	CollectionRounding = "REDONDEO"     // Residual swept by the rounding job
)

// CollectionType classifies how a collection was received. Code is unique.
type CollectionType struct {
	CollectionTypeID string `json:"collectionTypeID"` // Primary Key (UUID)
	Code             string `json:"code"`             // Unique stable code, e.g. "COMUN"
	Name             string `json:"name"`
	IsWaiver         bool   `json:"isWaiver"` // True when no cash changes hands (bonus/rounding rows)
	IsActive         bool   `json:"isActive"`
	AuditFields
}

// BusinessLine groups organisms into an operating segment.
type BusinessLine struct {
	BusinessLineID string `json:"businessLineID"` // Primary Key (UUID)
	Name           string `json:"name"`           // Unique
	IsActive       bool   `json:"isActive"`
	AuditFields
}

// Organism is an institution (e.g. payroll-deduction agency) through which a
// credit may be serviced.
type Organism struct {
	OrganismID     string `json:"organismID"`     // Primary Key (UUID)
	Name           string `json:"name"`           // Unique
	BusinessLineID string `json:"businessLineID"` // FK -> business_lines (Not Null)
	CityID         string `json:"cityID"`         // Nullable reference lookup
	IsActive       bool   `json:"isActive"`
	AuditFields
}
