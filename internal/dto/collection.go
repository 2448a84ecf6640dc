package dto

import (
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordCollectionRequest defines the payload for applying a payment to one
// installment.
type RecordCollectionRequest struct {
	InstallmentID  string          `json:"installmentID" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	CollectionDate time.Time       `json:"collectionDate" binding:"required"`
	// Code of the collection type to book under, defaults to COMUN.
	CollectionTypeCode string `json:"collectionTypeCode"`
}

// AllocatePaymentRequest defines the payload for spreading a payment across
// outstanding installments.
type AllocatePaymentRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	CollectionDate time.Time       `json:"collectionDate" binding:"required"`
}

// SettleInAdvanceRequest defines the payload for settling a credit early.
type SettleInAdvanceRequest struct {
	SettlementDate time.Time `json:"settlementDate" binding:"required"`
}

// ForceSettleRequest defines the payload for stamping an installment settled.
type ForceSettleRequest struct {
	SettlementDate time.Time `json:"settlementDate" binding:"required"`
}

// CollectionResponse defines the data returned for a collection.
type CollectionResponse struct {
	CollectionID     string          `json:"collectionID"`
	InstallmentID    string          `json:"installmentID"`
	CreditID         string          `json:"creditID"`
	CollectionTypeID string          `json:"collectionTypeID"`
	CollectionDate   time.Time       `json:"collectionDate"`
	Capital          decimal.Decimal `json:"capital"`
	Interest         decimal.Decimal `json:"interest"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// AllocationResponse defines the outcome of a payment allocation.
type AllocationResponse struct {
	Collections   []CollectionResponse `json:"collections"`
	Remainder     decimal.Decimal      `json:"remainder"`
	CreditSettled bool                 `json:"creditSettled"`
}

// ClientAllocationResponse defines the outcome of a client-level allocation.
type ClientAllocationResponse struct {
	Results   []AllocationResponse `json:"results"`
	Remainder decimal.Decimal      `json:"remainder"`
}

// SweepResponse defines the outcome of a residual sweep.
type SweepResponse struct {
	CreditsSwept int             `json:"creditsSwept"`
	Collections  int             `json:"collections"`
	TotalWaived  decimal.Decimal `json:"totalWaived"`
}

// CreditSettledEvent is the payload published when a credit fully settles.
type CreditSettledEvent struct {
	CreditID  string    `json:"creditID"`
	SettledOn time.Time `json:"settledOn"`
}

// ListCollectionsParams defines query parameters for listing collections by date.
type ListCollectionsParams struct {
	From      time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To        time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
	Limit     int       `form:"limit,default=50"`
	NextToken *string   `form:"nextToken"`
}

// ListCollectionsResponse wraps a page of collections.
type ListCollectionsResponse struct {
	Collections []CollectionResponse `json:"collections"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// ToCollectionResponse converts a domain.Collection to CollectionResponse DTO.
func ToCollectionResponse(c *domain.Collection) CollectionResponse {
	return CollectionResponse{
		CollectionID:     c.CollectionID,
		InstallmentID:    c.InstallmentID,
		CreditID:         c.CreditID,
		CollectionTypeID: c.CollectionTypeID,
		CollectionDate:   c.CollectionDate,
		Capital:          c.Capital,
		Interest:         c.Interest,
		Tax:              c.Tax,
		Total:            c.Total,
		CreatedAt:        c.CreatedAt,
	}
}

// ToCollectionResponses converts a slice of domain.Collection to []CollectionResponse.
func ToCollectionResponses(cols []domain.Collection) []CollectionResponse {
	responses := make([]CollectionResponse, len(cols))
	for i, c := range cols {
		responses[i] = ToCollectionResponse(&c)
	}
	return responses
}

// ToAllocationResponse converts a domain.AllocationResult to AllocationResponse DTO.
func ToAllocationResponse(res *domain.AllocationResult) AllocationResponse {
	return AllocationResponse{
		Collections:   ToCollectionResponses(res.Collections),
		Remainder:     res.Remainder,
		CreditSettled: res.CreditSettled,
	}
}

// ToClientAllocationResponse converts a domain.ClientAllocationResult to its DTO.
func ToClientAllocationResponse(res *domain.ClientAllocationResult) ClientAllocationResponse {
	results := make([]AllocationResponse, len(res.Results))
	for i := range res.Results {
		results[i] = ToAllocationResponse(&res.Results[i])
	}
	return ClientAllocationResponse{
		Results:   results,
		Remainder: res.Remainder,
	}
}
