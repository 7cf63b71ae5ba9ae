package expense

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/currency"
	"github.com/fkhayef/momosplit/internal/expense/split"
)

// CreateExpenseRequest represents the request to create an expense.
// Participants may be omitted for EQUAL splits to use every joined group member.
type CreateExpenseRequest struct {
	GroupID      int64           `json:"group_id" validate:"required"`
	Description  string          `json:"description" validate:"required,min=1,max=255"`
	Amount       decimal.Decimal `json:"amount" validate:"required,gt=0" swaggertype:"string" example:"45000.00"`
	Currency     string          `json:"currency,omitempty" example:"GHS"`
	PaidBy       int64           `json:"paid_by" validate:"required"`
	SplitType    string          `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT"`
	Participants []split.Input   `json:"participants"`
}

// UpdateExpenseRequest replaces every editable field of an expense
type UpdateExpenseRequest struct {
	Description  string          `json:"description" validate:"required,min=1,max=255"`
	Amount       decimal.Decimal `json:"amount" validate:"required,gt=0" swaggertype:"string"`
	PaidBy       int64           `json:"paid_by" validate:"required"`
	SplitType    string          `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT"`
	Participants []split.Input   `json:"participants"`
}

// PreviewSplitRequest asks for computed shares without saving anything
type PreviewSplitRequest struct {
	GroupID      int64           `json:"group_id,omitempty"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`
	SplitType    string          `json:"split_type"`
	Participants []split.Input   `json:"participants"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID              int64            `json:"id"`
	GroupID         int64            `json:"group_id"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount" swaggertype:"string"`
	FormattedAmount string           `json:"formatted_amount"`
	Currency        string           `json:"currency"`
	PaidBy          int64            `json:"paid_by"`
	PayerName       string           `json:"payer_name,omitempty"`
	SplitType       split.SplitType  `json:"split_type"`
	Kind            Kind             `json:"kind"`
	CreatedAt       string           `json:"created_at"`
	Splits          []*SplitResponse `json:"splits"`
}

// SplitResponse represents one member's share in a response
type SplitResponse struct {
	UserID          int64            `json:"user_id"`
	UserName        string           `json:"user_name,omitempty"`
	Amount          decimal.Decimal  `json:"amount" swaggertype:"string"`
	Percentage      *decimal.Decimal `json:"percentage,omitempty" swaggertype:"string"`
	FormattedAmount string           `json:"formatted_amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:              e.ID,
		GroupID:         e.GroupID,
		Description:     e.Description,
		Amount:          e.Amount,
		FormattedAmount: currency.FormatOrFallback(e.Amount, e.Currency),
		Currency:        e.Currency,
		PaidBy:          e.PaidBy,
		PayerName:       e.PayerName,
		SplitType:       e.SplitType,
		Kind:            e.Kind,
		CreatedAt:       e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Splits:          make([]*SplitResponse, len(e.Splits)),
	}
	var derived []decimal.Decimal
	if e.SplitType == split.SplitTypeExact {
		amounts := make([]decimal.Decimal, len(e.Splits))
		for i, s := range e.Splits {
			amounts[i] = s.Amount
		}
		derived = split.PercentagesOf(e.Amount, amounts)
	}
	for i, s := range e.Splits {
		pct := s.Percentage
		if pct == nil && derived != nil {
			pct = &derived[i]
		}
		resp.Splits[i] = &SplitResponse{
			UserID:          s.UserID,
			UserName:        s.UserName,
			Amount:          s.Amount,
			Percentage:      pct,
			FormattedAmount: currency.FormatOrFallback(s.Amount, e.Currency),
		}
	}
	return resp
}
