package dto

import (
	"github.com/credisur/creditledger/internal/core/domain"
)

// CreateCreditTypeRequest defines the payload for creating a credit type.
type CreateCreditTypeRequest struct {
	Name           string `json:"name" binding:"required"`
	ScheduleMethod string `json:"scheduleMethod" binding:"required,oneof=FRENCH GERMAN PENALTY"`
}

// CreateCollectionTypeRequest defines the payload for creating a collection type.
type CreateCollectionTypeRequest struct {
	Code     string `json:"code" binding:"required,uppercase"`
	Name     string `json:"name" binding:"required"`
	IsWaiver bool   `json:"isWaiver"`
}

// CreateBusinessLineRequest defines the payload for creating a business line.
type CreateBusinessLineRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateOrganismRequest defines the payload for creating an organism.
type CreateOrganismRequest struct {
	Name           string  `json:"name" binding:"required"`
	BusinessLineID string  `json:"businessLineID" binding:"required"`
	CityID         *string `json:"cityID"`
}

// CreditTypeResponse defines the data returned for a credit type.
type CreditTypeResponse struct {
	CreditTypeID   string `json:"creditTypeID"`
	Name           string `json:"name"`
	ScheduleMethod string `json:"scheduleMethod"`
	IsActive       bool   `json:"isActive"`
}

// CollectionTypeResponse defines the data returned for a collection type.
type CollectionTypeResponse struct {
	CollectionTypeID string `json:"collectionTypeID"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	IsWaiver         bool   `json:"isWaiver"`
	IsActive         bool   `json:"isActive"`
}

// BusinessLineResponse defines the data returned for a business line.
type BusinessLineResponse struct {
	BusinessLineID string `json:"businessLineID"`
	Name           string `json:"name"`
	IsActive       bool   `json:"isActive"`
}

// OrganismResponse defines the data returned for an organism.
type OrganismResponse struct {
	OrganismID     string `json:"organismID"`
	Name           string `json:"name"`
	BusinessLineID string `json:"businessLineID"`
	IsActive       bool   `json:"isActive"`
}

// ToCreditTypeResponse converts a domain.CreditType to its DTO.
func ToCreditTypeResponse(ct *domain.CreditType) CreditTypeResponse {
	return CreditTypeResponse{
		CreditTypeID:   ct.CreditTypeID,
		Name:           ct.Name,
		ScheduleMethod: string(ct.ScheduleMethod),
		IsActive:       ct.IsActive,
	}
}

// ToCreditTypeResponses converts a slice of domain.CreditType to DTOs.
func ToCreditTypeResponses(types []domain.CreditType) []CreditTypeResponse {
	responses := make([]CreditTypeResponse, len(types))
	for i, ct := range types {
		responses[i] = ToCreditTypeResponse(&ct)
	}
	return responses
}

// ToCollectionTypeResponse converts a domain.CollectionType to its DTO.
func ToCollectionTypeResponse(ct *domain.CollectionType) CollectionTypeResponse {
	return CollectionTypeResponse{
		CollectionTypeID: ct.CollectionTypeID,
		Code:             ct.Code,
		Name:             ct.Name,
		IsWaiver:         ct.IsWaiver,
		IsActive:         ct.IsActive,
	}
}

// ToCollectionTypeResponses converts a slice of domain.CollectionType to DTOs.
func ToCollectionTypeResponses(types []domain.CollectionType) []CollectionTypeResponse {
	responses := make([]CollectionTypeResponse, len(types))
	for i, ct := range types {
		responses[i] = ToCollectionTypeResponse(&ct)
	}
	return responses
}

// ToBusinessLineResponse converts a domain.BusinessLine to its DTO.
func ToBusinessLineResponse(bl *domain.BusinessLine) BusinessLineResponse {
	return BusinessLineResponse{
		BusinessLineID: bl.BusinessLineID,
		Name:           bl.Name,
		IsActive:       bl.IsActive,
	}
}

// ToOrganismResponse converts a domain.Organism to its DTO.
func ToOrganismResponse(o *domain.Organism) OrganismResponse {
	return OrganismResponse{
		OrganismID:     o.OrganismID,
		Name:           o.Name,
		BusinessLineID: o.BusinessLineID,
		IsActive:       o.IsActive,
	}
}
