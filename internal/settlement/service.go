package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/balance"
	"github.com/fkhayef/momosplit/internal/eventlog"
	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/group"
	"github.com/fkhayef/momosplit/internal/money"
)

// Common errors
var (
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrAlreadySettled      = errors.New("already settled up - no debt between these members")
	ErrNotPayer            = errors.New("only the payer can mark as paid")
	ErrNotReceiver         = errors.New("only the receiver can confirm/reject")
	ErrInvalidStatusChange = errors.New("invalid status change")
	ErrCannotSettleSelf    = errors.New("cannot create settlement with yourself")
	ErrAmountExceedsDebt   = errors.New("amount is more than the simplified debt")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrSettlementOpen      = errors.New("an open settlement already exists between these members")
)

// Ledger is the expense side a settlement reads balances from and records
// confirmed payments to
type Ledger interface {
	ListAllByGroup(ctx context.Context, groupID int64) ([]*expense.Expense, error)
	RecordPayment(ctx context.Context, groupID, payerID, receiverID int64, amount decimal.Decimal, description string) (*expense.Expense, error)
}

// GroupDirectory resolves a group's currency and members
type GroupDirectory interface {
	Roster(ctx context.Context, groupID int64) (*group.Roster, error)
	GetMembers(ctx context.Context, groupID int64) ([]*group.GroupMember, error)
}

// Notifier tells members about settlement progress
type Notifier interface {
	NotifySettlementRequested(ctx context.Context, recipientID int64, payerName string, amount decimal.Decimal, code string, settlementID int64) error
	NotifySettlementPaid(ctx context.Context, recipientID int64, payerName string, amount decimal.Decimal, code string, settlementID int64) error
	NotifySettlementResolved(ctx context.Context, recipientID int64, receiverName string, confirmed bool, settlementID int64) error
}

// EventRecorder queues activity log events
type EventRecorder interface {
	Log(event eventlog.Event)
}

// Service handles settlement business logic
type Service struct {
	repo     Store
	ledger   Ledger
	groups   GroupDirectory
	notifier Notifier
	events   EventRecorder
}

// NewService creates a new settlement service
func NewService(repo Store, ledger Ledger, groups GroupDirectory, notifier Notifier, events EventRecorder) *Service {
	return &Service{
		repo:     repo,
		ledger:   ledger,
		groups:   groups,
		notifier: notifier,
		events:   events,
	}
}

// Balances computes every member's net balance in a group from a snapshot
// of its expenses
func (s *Service) Balances(ctx context.Context, groupID int64) ([]balance.Balance, error) {
	roster, err := s.groups.Roster(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListAllByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return balance.ComputeBalances(groupID, roster.Currency, expenses)
}

// Debts returns the simplified transfers that would settle a group
func (s *Service) Debts(ctx context.Context, groupID int64) ([]balance.Debt, error) {
	balances, err := s.Balances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return balance.SimplifyDebts(balances), nil
}

// Preview returns the group's balances as they would be after payer sends
// receiver amount. Nothing is saved.
func (s *Service) Preview(ctx context.Context, req *PreviewSettlementRequest) ([]balance.Balance, error) {
	if req.PayerID == req.ReceiverID {
		return nil, ErrCannotSettleSelf
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	balances, err := s.Balances(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	return balance.Apply(balances, []balance.Debt{{
		From:    req.PayerID,
		To:      req.ReceiverID,
		Amount:  money.Round(req.Amount),
		GroupID: req.GroupID,
	}}), nil
}

// CreateFromDebt opens a payment request between the initiator and another
// member. The direction comes from the group's simplified debts, and the
// amount defaults to the whole debt.
func (s *Service) CreateFromDebt(ctx context.Context, initiatorID int64, req *CreateSettlementRequest) (*Settlement, error) {
	otherUserID := req.OtherUserID
	if initiatorID == otherUserID {
		return nil, ErrCannotSettleSelf
	}

	roster, err := s.groups.Roster(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	debts, err := s.Debts(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	payerID, receiverID := initiatorID, otherUserID
	owed := balance.DebtBetween(debts, initiatorID, otherUserID)
	if !owed.IsPositive() {
		payerID, receiverID = otherUserID, initiatorID
		owed = balance.DebtBetween(debts, otherUserID, initiatorID)
	}
	if !owed.IsPositive() {
		return nil, ErrAlreadySettled
	}

	amount := owed
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		amount = money.Round(*req.Amount)
		if amount.GreaterThan(owed) {
			return nil, fmt.Errorf("%w: at most %s", ErrAmountExceedsDebt, owed.StringFixed(2))
		}
	}

	open, err := s.repo.HasOpen(ctx, req.GroupID, payerID, receiverID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrSettlementOpen
	}

	created, err := s.repo.Create(ctx, &Settlement{
		GroupID:    req.GroupID,
		PayerID:    payerID,
		ReceiverID: receiverID,
		Amount:     amount,
		Currency:   roster.Currency,
	})
	if err != nil {
		return nil, err
	}

	settlement, err := s.GetByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, func(n Notifier) error {
		return n.NotifySettlementRequested(ctx, settlement.ReceiverID, nameOr(settlement.PayerName), settlement.Amount, settlement.Currency, settlement.ID)
	})
	s.log(eventlog.TypeSettlementCreated, initiatorID, settlement)

	return settlement, nil
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, ErrSettlementNotFound
	}
	return settlement, nil
}

// ListByUserID retrieves all settlements for a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// ListByGroup retrieves every settlement of a group
func (s *Service) ListByGroup(ctx context.Context, groupID int64) ([]*Settlement, error) {
	return s.repo.ListByGroup(ctx, groupID)
}

// MarkAsPaid allows the payer to mark the settlement as paid
func (s *Service) MarkAsPaid(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.PayerID != userID {
		return nil, ErrNotPayer
	}
	if settlement.Status != SettlementStatusPending {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.updateStatus(ctx, settlementID, SettlementStatusPaid, nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, func(n Notifier) error {
		return n.NotifySettlementPaid(ctx, updated.ReceiverID, nameOr(updated.PayerName), updated.Amount, updated.Currency, updated.ID)
	})
	s.log(eventlog.TypeSettlementPaid, userID, updated)

	return updated, nil
}

// Confirm allows the receiver to confirm they received the payment. The
// transfer is recorded as a payment expense so the group's balances move.
func (s *Service) Confirm(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if settlement.Status != SettlementStatusPaid {
		return nil, ErrInvalidStatusChange
	}

	payment, err := s.ledger.RecordPayment(ctx,
		settlement.GroupID,
		settlement.PayerID,
		settlement.ReceiverID,
		settlement.Amount,
		"Settlement #"+strconv.FormatInt(settlement.ID, 10),
	)
	if err != nil {
		return nil, err
	}

	updated, err := s.updateStatus(ctx, settlementID, SettlementStatusConfirmed, &payment.ID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, func(n Notifier) error {
		return n.NotifySettlementResolved(ctx, updated.PayerID, nameOr(updated.ReceiverName), true, updated.ID)
	})
	s.log(eventlog.TypeSettlementResolved, userID, updated)

	return updated, nil
}

// Reject allows the receiver to reject the settlement (they didn't receive payment)
func (s *Service) Reject(ctx context.Context, settlementID, userID int64) (*Settlement, error) {
	settlement, err := s.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ReceiverID != userID {
		return nil, ErrNotReceiver
	}
	if !settlement.IsOpen() {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.updateStatus(ctx, settlementID, SettlementStatusRejected, nil)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, func(n Notifier) error {
		return n.NotifySettlementResolved(ctx, updated.PayerID, nameOr(updated.ReceiverName), false, updated.ID)
	})
	s.log(eventlog.TypeSettlementResolved, userID, updated)

	return updated, nil
}

// Members returns display names and wallet numbers for a group's members
func (s *Service) Members(ctx context.Context, groupID int64) (names, phones map[int64]string, err error) {
	members, err := s.groups.GetMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	names = make(map[int64]string, len(members))
	phones = make(map[int64]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.Name
		phones[m.UserID] = m.PhoneNumber
	}
	return names, phones, nil
}

func (s *Service) updateStatus(ctx context.Context, id int64, status SettlementStatus, paymentExpenseID *int64) (*Settlement, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, status, paymentExpenseID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrSettlementNotFound
	}
	return updated, nil
}

func (s *Service) notify(ctx context.Context, send func(Notifier) error) {
	if s.notifier == nil {
		return
	}
	if err := send(s.notifier); err != nil {
		slog.WarnContext(ctx, "failed to send settlement notification", "error", err)
	}
}

func (s *Service) log(eventType string, actorID int64, settlement *Settlement) {
	if s.events == nil {
		return
	}
	s.events.Log(eventlog.NewEvent(
		eventlog.WithType(eventType),
		eventlog.WithData(settlement.ToResponse()),
		eventlog.WithMetadata(map[string]string{
			"group_id":      strconv.FormatInt(settlement.GroupID, 10),
			"settlement_id": strconv.FormatInt(settlement.ID, 10),
			"actor_id":      strconv.FormatInt(actorID, 10),
			"status":        string(settlement.Status),
		}),
	))
}

func nameOr(name string) string {
	if name == "" {
		return "A group member"
	}
	return name
}
