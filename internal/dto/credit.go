package dto

import (
	"time"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OriginateCreditRequest defines the payload for originating a credit.
type OriginateCreditRequest struct {
	OriginRef        string          `json:"originRef"` // External reference, optional
	ClientID         string          `json:"clientID" binding:"required"`
	CreditTypeID     string          `json:"creditTypeID" binding:"required"`
	OrganismID       *string         `json:"organismID"`
	DisbursementDate time.Time       `json:"disbursementDate" binding:"required"`
	FirstDueDate     *time.Time      `json:"firstDueDate"` // Defaults to the configured due day of the following month
	AmountDisbursed  decimal.Decimal `json:"amountDisbursed" binding:"required"`
	AnnualRate       decimal.Decimal `json:"annualRate"` // Percent, tax inclusive
	Term             int             `json:"term" binding:"required,min=1"`
}

// OriginatePenaltyRequest defines the payload for attaching a penalty credit
// to an existing credit.
type OriginatePenaltyRequest struct {
	CreditID  string          `json:"creditID" binding:"required"` // The credit being penalized
	Surcharge decimal.Decimal `json:"surcharge" binding:"required"`
	DueDate   time.Time       `json:"dueDate" binding:"required"`
}

// PreviewScheduleRequest defines the payload for computing a schedule without
// persisting anything.
type PreviewScheduleRequest struct {
	CreditTypeID     string          `json:"creditTypeID" binding:"required"`
	AmountDisbursed  decimal.Decimal `json:"amountDisbursed" binding:"required"`
	AnnualRate       decimal.Decimal `json:"annualRate"`
	Term             int             `json:"term" binding:"required,min=1"`
	DisbursementDate time.Time       `json:"disbursementDate" binding:"required"`
	FirstDueDate     *time.Time      `json:"firstDueDate"`
}

// CreditResponse defines the data returned for a credit.
type CreditResponse struct {
	CreditID         string          `json:"creditID"`
	OriginRef        string          `json:"originRef,omitempty"`
	ClientID         string          `json:"clientID"`
	CreditTypeID     string          `json:"creditTypeID"`
	OrganismID       *string         `json:"organismID,omitempty"`
	PurchaseID       *string         `json:"purchaseID,omitempty"`
	SaleID           *string         `json:"saleID,omitempty"`
	OriginCreditID   *string         `json:"originCreditID,omitempty"`
	DisbursementDate time.Time       `json:"disbursementDate"`
	FirstDueDate     time.Time       `json:"firstDueDate"`
	AmountDisbursed  decimal.Decimal `json:"amountDisbursed"`
	AnnualRate       decimal.Decimal `json:"annualRate"`
	Term             int             `json:"term"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// InstallmentResponse defines the data returned for an installment.
type InstallmentResponse struct {
	InstallmentID  string          `json:"installmentID"`
	CreditID       string          `json:"creditID"`
	InstNum        int             `json:"instNum"`
	DueDate        time.Time       `json:"dueDate"`
	OwnerID        string          `json:"ownerID"`
	Capital        decimal.Decimal `json:"capital"`
	Interest       decimal.Decimal `json:"interest"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	CollectedTotal decimal.Decimal `json:"collectedTotal"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	SettlementDate *time.Time      `json:"settlementDate,omitempty"`
}

// ScheduleResponse combines a credit with its installments.
type ScheduleResponse struct {
	Credit       CreditResponse        `json:"credit"`
	Installments []InstallmentResponse `json:"installments"`
}

// InstallmentDraftResponse defines one preview schedule row.
type InstallmentDraftResponse struct {
	InstNum  int             `json:"instNum"`
	DueDate  time.Time       `json:"dueDate"`
	Capital  decimal.Decimal `json:"capital"`
	Interest decimal.Decimal `json:"interest"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ListCreditsParams defines query parameters for listing credits.
type ListCreditsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListCreditsResponse wraps a page of credits with the token for the next page.
type ListCreditsResponse struct {
	Credits   []CreditResponse `json:"credits"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ListOverdueParams defines query parameters for listing overdue installments.
type ListOverdueParams struct {
	AsOf      *time.Time `form:"asOf" time_format:"2006-01-02"`
	Limit     int        `form:"limit,default=50"`
	NextToken *string    `form:"nextToken"`
}

// ListInstallmentsResponse wraps a page of installments.
type ListInstallmentsResponse struct {
	Installments []InstallmentResponse `json:"installments"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToCreditResponse converts a domain.Credit to CreditResponse DTO.
func ToCreditResponse(c *domain.Credit) CreditResponse {
	return CreditResponse{
		CreditID:         c.CreditID,
		OriginRef:        c.OriginRef,
		ClientID:         c.ClientID,
		CreditTypeID:     c.CreditTypeID,
		OrganismID:       c.OrganismID,
		PurchaseID:       c.PurchaseID,
		SaleID:           c.SaleID,
		OriginCreditID:   c.OriginCreditID,
		DisbursementDate: c.DisbursementDate,
		FirstDueDate:     c.FirstDueDate,
		AmountDisbursed:  c.AmountDisbursed,
		AnnualRate:       c.AnnualRate,
		Term:             c.Term,
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
	}
}

// ToCreditResponses converts a slice of domain.Credit to []CreditResponse.
func ToCreditResponses(credits []domain.Credit) []CreditResponse {
	responses := make([]CreditResponse, len(credits))
	for i, c := range credits {
		responses[i] = ToCreditResponse(&c)
	}
	return responses
}

// ToInstallmentResponse converts a domain.Installment to InstallmentResponse DTO.
func ToInstallmentResponse(inst *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:  inst.InstallmentID,
		CreditID:       inst.CreditID,
		InstNum:        inst.InstNum,
		DueDate:        inst.DueDate,
		OwnerID:        inst.OwnerID,
		Capital:        inst.Capital,
		Interest:       inst.Interest,
		Tax:            inst.Tax,
		Total:          inst.Total,
		CollectedTotal: inst.CollectedTotal,
		Outstanding:    inst.Outstanding(),
		SettlementDate: inst.SettlementDate,
	}
}

// ToInstallmentResponses converts a slice of domain.Installment to []InstallmentResponse.
func ToInstallmentResponses(insts []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(insts))
	for i, inst := range insts {
		responses[i] = ToInstallmentResponse(&inst)
	}
	return responses
}

// ToInstallmentDraftResponses converts schedule drafts to response DTOs.
func ToInstallmentDraftResponses(drafts []domain.InstallmentDraft) []InstallmentDraftResponse {
	responses := make([]InstallmentDraftResponse, len(drafts))
	for i, d := range drafts {
		responses[i] = InstallmentDraftResponse{
			InstNum:  d.InstNum,
			DueDate:  d.DueDate,
			Capital:  d.Capital,
			Interest: d.Interest,
			Tax:      d.Tax,
			Total:    d.Total,
		}
	}
	return responses
}
