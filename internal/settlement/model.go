package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus represents the status of a settlement
type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "PENDING"
	SettlementStatusPaid      SettlementStatus = "PAID"
	SettlementStatusConfirmed SettlementStatus = "CONFIRMED"
	SettlementStatusRejected  SettlementStatus = "REJECTED"
)

// Settlement is a mobile-money payment request derived from a group's
// simplified debts. Once the receiver confirms it, the transfer is recorded
// as a payment expense and PaymentExpenseID points at it.
type Settlement struct {
	ID               int64            `json:"id"`
	GroupID          int64            `json:"group_id"`
	PayerID          int64            `json:"payer_id"`
	ReceiverID       int64            `json:"receiver_id"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency"`
	Status           SettlementStatus `json:"status"`
	PaymentExpenseID *int64           `json:"payment_expense_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`

	// Populated via JOIN
	PayerName     string `json:"payer_name,omitempty"`
	ReceiverName  string `json:"receiver_name,omitempty"`
	ReceiverPhone string `json:"receiver_phone,omitempty"`
}

// IsOpen reports whether the settlement can still change status
func (s *Settlement) IsOpen() bool {
	return s.Status == SettlementStatusPending || s.Status == SettlementStatusPaid
}
