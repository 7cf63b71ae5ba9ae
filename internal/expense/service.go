package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/momosplit/internal/eventlog"
	"github.com/fkhayef/momosplit/internal/expense/split"
	"github.com/fkhayef/momosplit/internal/group"
	"github.com/fkhayef/momosplit/internal/money"
)

// Common errors
var (
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrNotPayer          = errors.New("only the payer can change this expense")
	ErrPaymentImmutable  = errors.New("settlement payments cannot be edited or deleted")
	ErrNotGroupMember    = errors.New("payer and participants must be joined members of the group")
	ErrCurrencyMismatch  = errors.New("expense currency must match the group currency")
	ErrSamePayerReceiver = errors.New("a payment needs two different members")
)

// GroupDirectory resolves a group's currency and joined members
type GroupDirectory interface {
	Roster(ctx context.Context, groupID int64) (*group.Roster, error)
}

// Notifier tells split owners about expenses they share in
type Notifier interface {
	NotifyExpenseAdded(ctx context.Context, recipientID int64, payerName, description string, share decimal.Decimal, code string, expenseID int64) error
}

// EventRecorder queues activity log events
type EventRecorder interface {
	Log(event eventlog.Event)
}

// Service handles expense business logic. Every expense that reaches the
// store has passed Validate.
type Service struct {
	repo     Store
	groups   GroupDirectory
	notifier Notifier
	events   EventRecorder
}

// NewService creates a new expense service with dependencies injected
func NewService(repo Store, groups GroupDirectory, notifier Notifier, events EventRecorder) *Service {
	return &Service{
		repo:     repo,
		groups:   groups,
		notifier: notifier,
		events:   events,
	}
}

// Create computes the splits for a new expense, validates it and saves it
func (s *Service) Create(ctx context.Context, actorID int64, req *CreateExpenseRequest) (*Expense, error) {
	e := &Expense{
		GroupID:     req.GroupID,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		PaidBy:      req.PaidBy,
		Kind:        KindExpense,
	}

	roster, err := s.roster(ctx, e.GroupID)
	if err != nil {
		return nil, err
	}
	if err := s.assignCurrency(e, roster); err != nil {
		return nil, err
	}
	splitErr := assignSplits(e, roster, req.SplitType, req.Participants)
	if err := check(e, splitErr); err != nil {
		return nil, err
	}
	if err := checkMembership(e, roster); err != nil {
		return nil, err
	}

	saved, err := s.save(ctx, e)
	if err != nil {
		return nil, err
	}

	s.notifySplitOwners(ctx, saved)
	s.log(eventlog.TypeExpenseCreated, actorID, saved)

	return saved, nil
}

// Get retrieves an expense with its splits
func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	return expense, nil
}

// ListByGroup retrieves a page of a group's expenses
func (s *Service) ListByGroup(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroup(ctx, groupID, perPage, offset)
}

// ListAllByGroup returns a snapshot of every expense in a group, oldest first
func (s *Service) ListAllByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	expenses, err := s.repo.ListAllByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]*Expense, len(expenses))
	for i, e := range expenses {
		snapshot[i] = e.Clone()
	}
	return snapshot, nil
}

// Update replaces an expense's description, amount, payer and splits. Only
// the current payer may do this, and recorded payments cannot be changed.
func (s *Service) Update(ctx context.Context, actorID, id int64, req *UpdateExpenseRequest) (*Expense, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Kind == KindPayment {
		return nil, ErrPaymentImmutable
	}
	if existing.PaidBy != actorID {
		return nil, ErrNotPayer
	}

	e := &Expense{
		ID:          existing.ID,
		GroupID:     existing.GroupID,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Currency:    existing.Currency,
		PaidBy:      req.PaidBy,
		Kind:        existing.Kind,
		CreatedAt:   existing.CreatedAt,
	}

	roster, err := s.roster(ctx, e.GroupID)
	if err != nil {
		return nil, err
	}
	splitErr := assignSplits(e, roster, req.SplitType, req.Participants)
	if err := check(e, splitErr); err != nil {
		return nil, err
	}
	if err := checkMembership(e, roster); err != nil {
		return nil, err
	}

	replaced, err := s.repo.Replace(ctx, e)
	if err != nil {
		return nil, err
	}
	if replaced == nil {
		return nil, ErrExpenseNotFound
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log(eventlog.TypeExpenseUpdated, actorID, updated)
	return updated, nil
}

// Delete removes an expense. Only the payer may delete it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Kind == KindPayment {
		return ErrPaymentImmutable
	}
	if existing.PaidBy != actorID {
		return ErrNotPayer
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log(eventlog.TypeExpenseDeleted, actorID, existing)
	return nil
}

// RecordPayment stores a settle-up transfer as a PAYMENT expense: the payer
// is credited the amount and the receiver carries it as an exact split. This
// keeps balances a function of expenses alone.
func (s *Service) RecordPayment(ctx context.Context, groupID, payerID, receiverID int64, amount decimal.Decimal, description string) (*Expense, error) {
	if payerID == receiverID {
		return nil, ErrSamePayerReceiver
	}
	if strings.TrimSpace(description) == "" {
		description = "Settlement payment"
	}

	roster, err := s.roster(ctx, groupID)
	if err != nil {
		return nil, err
	}

	e := &Expense{
		GroupID:     groupID,
		Description: description,
		Amount:      money.Round(amount),
		PaidBy:      payerID,
		SplitType:   split.SplitTypeExact,
		Kind:        KindPayment,
		Splits:      []ExpenseSplit{{UserID: receiverID, Amount: money.Round(amount)}},
	}
	if err := s.assignCurrency(e, roster); err != nil {
		return nil, err
	}
	if verr := Validate(e); verr != nil {
		return nil, verr
	}
	if err := checkMembership(e, roster); err != nil {
		return nil, err
	}

	saved, err := s.save(ctx, e)
	if err != nil {
		return nil, err
	}

	s.log(eventlog.TypeExpenseCreated, payerID, saved)
	return saved, nil
}

// PreviewSplit runs the split computation without saving anything. When a
// group is given and an EQUAL split lists no participants, the group's joined
// members are used.
func (s *Service) PreviewSplit(ctx context.Context, req *PreviewSplitRequest) ([]split.Share, error) {
	roster, err := s.roster(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	policy, memberIDs, err := parsePolicy(roster, req.SplitType, req.Participants)
	if err != nil {
		return nil, err
	}

	return split.Apply(policy, req.Amount, memberIDs)
}

func (s *Service) roster(ctx context.Context, groupID int64) (*group.Roster, error) {
	if groupID == 0 {
		return nil, nil
	}
	return s.groups.Roster(ctx, groupID)
}

func (s *Service) assignCurrency(e *Expense, roster *group.Roster) error {
	if roster == nil {
		return nil
	}
	if e.Currency == "" {
		e.Currency = roster.Currency
		return nil
	}
	if !strings.EqualFold(e.Currency, roster.Currency) {
		return fmt.Errorf("%w: group uses %s", ErrCurrencyMismatch, roster.Currency)
	}
	e.Currency = roster.Currency
	return nil
}

// save persists e and reloads it so names from the users table are filled in
func (s *Service) save(ctx context.Context, e *Expense) (*Expense, error) {
	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.GetByID(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return created, nil
	}
	return saved, nil
}

func (s *Service) notifySplitOwners(ctx context.Context, e *Expense) {
	if s.notifier == nil {
		return
	}
	payerName := e.PayerName
	if payerName == "" {
		payerName = "Someone"
	}
	for _, userID := range e.Participants() {
		share := e.ShareOf(userID)
		if userID == e.PaidBy || !share.IsPositive() {
			continue
		}
		if err := s.notifier.NotifyExpenseAdded(ctx, userID, payerName, e.Description, share, e.Currency, e.ID); err != nil {
			slog.Warn("failed to notify split owner", "error", err, "expense_id", e.ID, "user_id", userID)
		}
	}
}

func (s *Service) log(eventType string, actorID int64, e *Expense) {
	if s.events == nil {
		return
	}
	s.events.Log(eventlog.NewEvent(
		eventlog.WithType(eventType),
		eventlog.WithData(e.ToResponse()),
		eventlog.WithMetadata(map[string]string{
			"group_id":   strconv.FormatInt(e.GroupID, 10),
			"expense_id": strconv.FormatInt(e.ID, 10),
			"actor_id":   strconv.FormatInt(actorID, 10),
		}),
	))
}

// assignSplits computes e.Splits from the requested policy. A non-positive
// amount is left for Validate to report, so EQUAL and PERCENTAGE splits are
// only computed for positive amounts. EXACT amounts are always stored as
// given, never rounded, so Validate sees what the client sent.
func assignSplits(e *Expense, roster *group.Roster, splitType string, inputs []split.Input) error {
	policy, memberIDs, err := parsePolicy(roster, splitType, inputs)
	if err != nil {
		return err
	}
	e.SplitType = policy.Type()

	if !e.Amount.IsPositive() {
		if exact, ok := policy.(split.Exact); ok {
			e.Splits = make([]ExpenseSplit, len(memberIDs))
			for i, id := range memberIDs {
				e.Splits[i] = ExpenseSplit{UserID: id, Amount: exact.Amounts[i]}
			}
		} else {
			e.Splits = nil
		}
		return nil
	}

	shares, err := split.Apply(policy, e.Amount, memberIDs)
	if err != nil {
		return err
	}
	e.Splits = splitsFromShares(shares)
	return nil
}

func parsePolicy(roster *group.Roster, splitType string, inputs []split.Input) (split.Policy, []int64, error) {
	st, err := split.ParseSplitType(splitType)
	if err != nil {
		return nil, nil, err
	}
	if len(inputs) == 0 && st == split.SplitTypeEqual && roster != nil {
		inputs = make([]split.Input, len(roster.MemberIDs))
		for i, id := range roster.MemberIDs {
			inputs[i] = split.Input{UserID: id}
		}
	}
	return split.ParsePolicy(string(st), inputs)
}

func checkMembership(e *Expense, roster *group.Roster) error {
	if roster == nil {
		return nil
	}
	if !roster.Has(e.PaidBy) {
		return fmt.Errorf("%w: user %d", ErrNotGroupMember, e.PaidBy)
	}
	for _, sp := range e.Splits {
		if !roster.Has(sp.UserID) {
			return fmt.Errorf("%w: user %d", ErrNotGroupMember, sp.UserID)
		}
	}
	return nil
}
