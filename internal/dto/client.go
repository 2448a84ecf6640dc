package dto

import (
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest defines the payload for creating a client.
type CreateClientRequest struct {
	FirstName       string  `json:"firstName" binding:"required"`
	LastName        string  `json:"lastName" binding:"required"`
	DNI             string  `json:"dni" binding:"required"`
	CUIL            string  `json:"cuil" binding:"required,cuil"`
	GenderID        *string `json:"genderID"`
	MaritalStatusID *string `json:"maritalStatusID"`
	NationalityID   *string `json:"nationalityID"`
	ProvinceID      *string `json:"provinceID"`
	CityID          *string `json:"cityID"`
	Street          string  `json:"street"`
}

// UpdateClientRequest defines the data allowed for updating a client.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateClientRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	GenderID        *string `json:"genderID"`
	MaritalStatusID *string `json:"maritalStatusID"`
	NationalityID   *string `json:"nationalityID"`
	ProvinceID      *string `json:"provinceID"`
	CityID          *string `json:"cityID"`
	Street          *string `json:"street"`
}

// AddPhoneRequest defines the payload for attaching a phone to a client.
type AddPhoneRequest struct {
	Number string `json:"number" binding:"required"`
	Kind   string `json:"kind"` // MOBILE, HOME, WORK
}

// AddAddressRequest defines the payload for attaching an address to a client.
type AddAddressRequest struct {
	Street     string  `json:"street" binding:"required"`
	Number     string  `json:"number"`
	Floor      string  `json:"floor"`
	CityID     *string `json:"cityID"`
	ProvinceID *string `json:"provinceID"`
	PostalCode string  `json:"postalCode"`
}

// AddEmploymentRequest defines the payload for attaching an employment record.
type AddEmploymentRequest struct {
	Employer      string          `json:"employer" binding:"required"`
	Position      string          `json:"position"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	Since         *time.Time      `json:"since"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID   string     `json:"clientID"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	DNI        string     `json:"dni"`
	CUIL       string     `json:"cuil"`
	Street     string     `json:"street,omitempty"`
	IsActive   bool       `json:"isActive"`
	StatusDate *time.Time `json:"statusDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// PhoneResponse defines the data returned for a client phone.
type PhoneResponse struct {
	PhoneID string `json:"phoneID"`
	Number  string `json:"number"`
	Kind    string `json:"kind,omitempty"`
}

// AddressResponse defines the data returned for a client address.
type AddressResponse struct {
	AddressID  string `json:"addressID"`
	Street     string `json:"street"`
	Number     string `json:"number,omitempty"`
	Floor      string `json:"floor,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// EmploymentResponse defines the data returned for an employment record.
type EmploymentResponse struct {
	EmploymentID  string          `json:"employmentID"`
	Employer      string          `json:"employer"`
	Position      string          `json:"position,omitempty"`
	MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
	Since         *time.Time      `json:"since,omitempty"`
}

// ClientDetailResponse combines a client with its unarchived child records.
type ClientDetailResponse struct {
	Client     ClientResponse       `json:"client"`
	Phones     []PhoneResponse      `json:"phones"`
	Addresses  []AddressResponse    `json:"addresses"`
	Employment []EmploymentResponse `json:"employment"`
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListClientsResponse wraps a page of clients.
type ListClientsResponse struct {
	Clients   []ClientResponse `json:"clients"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToClientResponse converts a domain.Client to ClientResponse DTO.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:   c.ClientID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		DNI:        c.DNI,
		CUIL:       c.CUIL,
		Street:     c.Street,
		IsActive:   c.IsActive,
		StatusDate: c.StatusDate,
		CreatedAt:  c.CreatedAt,
	}
}

// ToClientResponses converts a slice of domain.Client to []ClientResponse.
func ToClientResponses(clients []domain.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i, c := range clients {
		responses[i] = ToClientResponse(&c)
	}
	return responses
}

// ToPhoneResponses converts client phones to response DTOs.
func ToPhoneResponses(phones []domain.ClientPhone) []PhoneResponse {
	responses := make([]PhoneResponse, len(phones))
	for i := range phones {
		responses[i] = ToPhoneResponse(&phones[i])
	}
	return responses
}

// ToPhoneResponse converts a client phone to its response DTO.
func ToPhoneResponse(p *domain.ClientPhone) PhoneResponse {
	return PhoneResponse{PhoneID: p.PhoneID, Number: p.Number, Kind: p.Kind}
}

// ToAddressResponses converts client addresses to response DTOs.
func ToAddressResponses(addrs []domain.ClientAddress) []AddressResponse {
	responses := make([]AddressResponse, len(addrs))
	for i := range addrs {
		responses[i] = ToAddressResponse(&addrs[i])
	}
	return responses
}

// ToAddressResponse converts a client address to its response DTO.
func ToAddressResponse(a *domain.ClientAddress) AddressResponse {
	return AddressResponse{
		AddressID:  a.AddressID,
		Street:     a.Street,
		Number:     a.Number,
		Floor:      a.Floor,
		PostalCode: a.PostalCode,
	}
}

// ToEmploymentResponses converts employment records to response DTOs.
func ToEmploymentResponses(records []domain.EmploymentRecord) []EmploymentResponse {
	responses := make([]EmploymentResponse, len(records))
	for i := range records {
		responses[i] = ToEmploymentResponse(&records[i])
	}
	return responses
}

// ToEmploymentResponse converts an employment record to its response DTO.
func ToEmploymentResponse(e *domain.EmploymentRecord) EmploymentResponse {
	return EmploymentResponse{
		EmploymentID:  e.EmploymentID,
		Employer:      e.Employer,
		Position:      e.Position,
		MonthlyIncome: e.MonthlyIncome,
		Since:         e.Since,
	}
}
