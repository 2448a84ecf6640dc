package dto

import (
	"github.com/credisur/creditledger/internal/core/domain"
)

// CreateOperatorRequest defines the payload for creating an operator.
type CreateOperatorRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateOperatorRequest defines the data allowed for updating an operator.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateOperatorRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// LoginRequest defines the payload for username and password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest defines the payload for refreshing an access token. The
// token may be omitted when the client sends the refresh cookie instead.
type RefreshRequest struct {
	OperatorID   string `json:"operatorID" binding:"required"`
	RefreshToken string `json:"refreshToken"`
}

// ListOperatorsParams defines query parameters for listing operators.
type ListOperatorsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// OperatorResponse defines the data returned for an operator.
type OperatorResponse struct {
	OperatorID string `json:"operatorID"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
}

// ListOperatorsResponse wraps the list of operators.
type ListOperatorsResponse struct {
	Operators []OperatorResponse `json:"operators"`
}

// ToOperatorResponse converts a domain.Operator to OperatorResponse DTO.
func ToOperatorResponse(op *domain.Operator) OperatorResponse {
	return OperatorResponse{
		OperatorID: op.OperatorID,
		Username:   op.Username,
		Name:       op.Name,
		Email:      op.Email,
	}
}

// ToListOperatorsResponse converts a slice of domain.Operator to ListOperatorsResponse DTO.
func ToListOperatorsResponse(operators []domain.Operator) ListOperatorsResponse {
	responses := make([]OperatorResponse, len(operators))
	for i, op := range operators {
		responses[i] = ToOperatorResponse(&op)
	}
	return ListOperatorsResponse{Operators: responses}
}
