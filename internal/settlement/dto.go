package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/balance"
	"github.com/fkhayef/momosplit/internal/currency"
	"github.com/fkhayef/momosplit/internal/money"
)

// CreateSettlementRequest asks to settle with another member of a group. Who
// pays whom is taken from the group's simplified debts. Amount defaults to the
// whole debt and may not exceed it.
type CreateSettlementRequest struct {
	GroupID     int64            `json:"group_id" validate:"required"`
	OtherUserID int64            `json:"other_user_id" validate:"required"`
	Amount      *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`
}

// PreviewSettlementRequest describes a transfer to try against current balances
type PreviewSettlementRequest struct {
	GroupID    int64           `json:"group_id"`
	PayerID    int64           `json:"payer_id"`
	ReceiverID int64           `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID               int64            `json:"id"`
	GroupID          int64            `json:"group_id"`
	PayerID          int64            `json:"payer_id"`
	PayerName        string           `json:"payer_name,omitempty"`
	ReceiverID       int64            `json:"receiver_id"`
	ReceiverName     string           `json:"receiver_name,omitempty"`
	ReceiverPhone    string           `json:"receiver_phone,omitempty"`
	Amount           decimal.Decimal  `json:"amount" swaggertype:"string"`
	FormattedAmount  string           `json:"formatted_amount"`
	Currency         string           `json:"currency"`
	Status           SettlementStatus `json:"status"`
	PaymentExpenseID *int64           `json:"payment_expense_id,omitempty"`
	CreatedAt        string           `json:"created_at"`
}

// BalanceResponse is one member's net position in a group
type BalanceResponse struct {
	UserID           int64           `json:"user_id"`
	Name             string          `json:"name,omitempty"`
	Balance          decimal.Decimal `json:"balance" swaggertype:"string"`
	FormattedBalance string          `json:"formatted_balance"`
	Currency         string          `json:"currency"`
	Message          string          `json:"message"`
}

// DebtResponse is one simplified transfer, with what a mobile-money send
// form needs pre-filled
type DebtResponse struct {
	From            int64           `json:"from"`
	FromName        string          `json:"from_name,omitempty"`
	To              int64           `json:"to"`
	ToName          string          `json:"to_name,omitempty"`
	ToPhoneNumber   string          `json:"to_phone_number,omitempty"`
	Amount          decimal.Decimal `json:"amount" swaggertype:"string"`
	FormattedAmount string          `json:"formatted_amount"`
	Currency        string          `json:"currency"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:               s.ID,
		GroupID:          s.GroupID,
		PayerID:          s.PayerID,
		PayerName:        s.PayerName,
		ReceiverID:       s.ReceiverID,
		ReceiverName:     s.ReceiverName,
		ReceiverPhone:    s.ReceiverPhone,
		Amount:           s.Amount,
		FormattedAmount:  currency.FormatOrFallback(s.Amount, s.Currency),
		Currency:         s.Currency,
		Status:           s.Status,
		PaymentExpenseID: s.PaymentExpenseID,
		CreatedAt:        s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toBalanceResponse(b balance.Balance, name string) *BalanceResponse {
	formatted := currency.FormatOrFallback(b.Amount.Abs(), b.Currency)
	if name == "" {
		name = "Member"
	}

	var message string
	switch {
	case money.IsNegligible(b.Amount):
		message = name + " is settled up"
	case b.Amount.IsPositive():
		message = name + " is owed " + formatted
	default:
		message = name + " owes " + formatted
	}

	return &BalanceResponse{
		UserID:           b.UserID,
		Name:             name,
		Balance:          b.Amount,
		FormattedBalance: currency.FormatOrFallback(b.Amount, b.Currency),
		Currency:         b.Currency,
		Message:          message,
	}
}

func toDebtResponse(d balance.Debt, names map[int64]string, phones map[int64]string) *DebtResponse {
	return &DebtResponse{
		From:            d.From,
		FromName:        names[d.From],
		To:              d.To,
		ToName:          names[d.To],
		ToPhoneNumber:   phones[d.To],
		Amount:          d.Amount,
		FormattedAmount: currency.FormatOrFallback(d.Amount, d.Currency),
		Currency:        d.Currency,
	}
}
