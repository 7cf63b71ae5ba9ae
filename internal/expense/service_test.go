package expense

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/momosplit/internal/eventlog"
	"github.com/fkhayef/momosplit/internal/expense/split"
	"github.com/fkhayef/momosplit/internal/group"
)

// MockStore is a mock implementation of Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, e *Expense) (*Expense, error) {
	args := m.Called(ctx, e)
	if fn, ok := args.Get(0).(func(*Expense) *Expense); ok {
		return fn(e), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Expense), args.Error(1)
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*Expense, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func() *Expense); ok {
		return fn(), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Expense), args.Error(1)
}

func (m *MockStore) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	args := m.Called(ctx, groupID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*Expense), args.Int(1), args.Error(2)
}

func (m *MockStore) ListAllByGroup(ctx context.Context, groupID int64) ([]*Expense, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Expense), args.Error(1)
}

func (m *MockStore) Replace(ctx context.Context, e *Expense) (*Expense, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Expense), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockGroups is a mock implementation of GroupDirectory for testing
type MockGroups struct {
	mock.Mock
}

func (m *MockGroups) Roster(ctx context.Context, groupID int64) (*group.Roster, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.Roster), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyExpenseAdded(ctx context.Context, recipientID int64, payerName, description string, share decimal.Decimal, code string, expenseID int64) error {
	return m.Called(ctx, recipientID, payerName, description, share, code, expenseID).Error(0)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []eventlog.Event
}

func (r *recordedEvents) Log(e eventlog.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store    *MockStore
	groups   *MockGroups
	notifier *MockNotifier
	events   *recordedEvents
	service  *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:    new(MockStore),
		groups:   new(MockGroups),
		notifier: new(MockNotifier),
		events:   &recordedEvents{},
	}
	f.service = NewService(f.store, f.groups, f.notifier, f.events)
	return f
}

func ghsRoster(members ...int64) *group.Roster {
	return &group.Roster{GroupID: 1, Currency: "GHS", MemberIDs: members}
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// expectSave makes Create hand back the expense with an ID and GetByID
// return it again, so the service sees what it saved.
func (f *fixture) expectSave(ctx context.Context, id int64) {
	var saved *Expense
	f.store.On("Create", ctx, mock.AnythingOfType("*expense.Expense")).
		Return(func(e *Expense) *Expense {
			saved = e.Clone()
			saved.ID = id
			saved.PayerName = "Ama"
			return saved
		}, nil)
	f.store.On("GetByID", ctx, id).Return(func() *Expense { return saved }, nil)
}

func TestCreate_EqualSplitDefaultsToRoster(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2, 3), nil)
	f.expectSave(ctx, 10)
	f.notifier.On("NotifyExpenseAdded", ctx, mock.Anything, "Ama", "Dinner", mock.Anything, "GHS", int64(10)).Return(nil)

	e, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: " Dinner ",
		Amount:      decimal.NewFromInt(100),
		PaidBy:      1,
		SplitType:   "EQUAL",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), e.ID)
	assert.Equal(t, "Dinner", e.Description)
	assert.Equal(t, "GHS", e.Currency)
	assert.Equal(t, split.SplitTypeEqual, e.SplitType)
	assert.Equal(t, KindExpense, e.Kind)
	require.Len(t, e.Splits, 3)
	assert.Equal(t, "33.34", e.Splits[0].Amount.StringFixed(2))
	assert.Equal(t, "33.33", e.Splits[1].Amount.StringFixed(2))
	assert.Equal(t, "33.33", e.Splits[2].Amount.StringFixed(2))

	// the payer is not notified about their own expense
	f.notifier.AssertNumberOfCalls(t, "NotifyExpenseAdded", 2)
	f.notifier.AssertNotCalled(t, "NotifyExpenseAdded", ctx, int64(1), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{eventlog.TypeExpenseCreated}, f.events.types())
}

func TestCreate_PercentageSplit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2, 3), nil)
	f.expectSave(ctx, 11)
	f.notifier.On("NotifyExpenseAdded", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	e, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: "Fuel",
		Amount:      decimal.NewFromInt(200),
		PaidBy:      1,
		SplitType:   "percentage",
		Participants: []split.Input{
			{UserID: 1, Percentage: decPtr("50")},
			{UserID: 2, Percentage: decPtr("30")},
			{UserID: 3, Percentage: decPtr("20")},
		},
	})

	require.NoError(t, err)
	require.Len(t, e.Splits, 3)
	assert.True(t, decimal.NewFromInt(100).Equal(e.Splits[0].Amount))
	assert.True(t, decimal.NewFromInt(60).Equal(e.Splits[1].Amount))
	assert.True(t, decimal.NewFromInt(40).Equal(e.Splits[2].Amount))
	require.NotNil(t, e.Splits[1].Percentage)
	assert.Equal(t, "30", e.Splits[1].Percentage.String())
}

func TestCreate_ZeroAmountFailsValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)

	_, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: "Nothing",
		Amount:      decimal.Zero,
		PaidBy:      1,
		SplitType:   "EQUAL",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Amount must be greater than 0")
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ExactSplitMismatchFailsValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)

	_, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: "Taxi",
		Amount:      decimal.NewFromInt(100),
		PaidBy:      1,
		SplitType:   "EXACT",
		Participants: []split.Input{
			{UserID: 1, Amount: decPtr("50")},
			{UserID: 2, Amount: decPtr("40")},
		},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Messages, 1)
	assert.Contains(t, verr.Messages[0], "difference 10.00")
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RejectsNonMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)

	_, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: "Lunch",
		Amount:      decimal.NewFromInt(30),
		PaidBy:      1,
		SplitType:   "EQUAL",
		Participants: []split.Input{
			{UserID: 1}, {UserID: 9},
		},
	})

	assert.ErrorIs(t, err, ErrNotGroupMember)
}

func TestCreate_RejectsOtherCurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)

	_, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: "Lunch",
		Amount:      decimal.NewFromInt(30),
		Currency:    "UGX",
		PaidBy:      1,
		SplitType:   "EQUAL",
	})

	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestCreate_PolicyErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)

	_, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:      1,
		Description:  "Lunch",
		Amount:       decimal.NewFromInt(30),
		PaidBy:       1,
		SplitType:    "PERCENTAGE",
		Participants: []split.Input{{UserID: 1}, {UserID: 2}},
	})
	assert.ErrorIs(t, err, split.ErrMissingPercentage)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Percentage value required for all participants"}, verr.Messages)

	_, err = f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: "Lunch",
		Amount:      decimal.NewFromInt(30),
		PaidBy:      1,
		SplitType:   "HALVES",
	})
	assert.ErrorIs(t, err, split.ErrUnknownSplitType)
}

func TestCreate_PolicyErrorReportedWithFieldErrors(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), 1, &CreateExpenseRequest{
		Amount:       decimal.Zero,
		SplitType:    "PERCENTAGE",
		Participants: []split.Input{{UserID: 1}},
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Description is required",
		"Amount must be greater than 0",
		"Payer is required",
		"Group is required",
		"Percentage value required for all participants",
	}, verr.Messages)
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ExactAmountsStoredAsSent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	roster := ghsRoster(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	f.groups.On("Roster", ctx, int64(1)).Return(roster, nil)

	participants := make([]split.Input, len(roster.MemberIDs))
	for i, id := range roster.MemberIDs {
		participants[i] = split.Input{UserID: id, Amount: decPtr("10.004")}
	}

	_, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:      1,
		Description:  "Shared taxi",
		Amount:       decimal.NewFromInt(100),
		PaidBy:       1,
		SplitType:    "EXACT",
		Participants: participants,
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Split amount 10.004 for user 1 has more than 2 decimal places")
	assert.Contains(t, verr.Messages, "Split amounts total 100.04 but expense amount is 100.00 (difference 0.04)")
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAssignSplits_ExactNotRounded(t *testing.T) {
	e := &Expense{Amount: decimal.NewFromInt(20)}

	err := assignSplits(e, nil, "EXACT", []split.Input{
		{UserID: 1, Amount: decPtr("10.004")},
		{UserID: 2, Amount: decPtr("9.996")},
	})

	require.NoError(t, err)
	assert.Equal(t, "10.004", e.Splits[0].Amount.String())
	assert.Equal(t, "9.996", e.Splits[1].Amount.String())
}

func TestCreate_NotifierFailureDoesNotFailCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)
	f.expectSave(ctx, 12)
	f.notifier.On("NotifyExpenseAdded", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("notifications down"))

	_, err := f.service.Create(ctx, 1, &CreateExpenseRequest{
		GroupID:     1,
		Description: "Water",
		Amount:      decimal.NewFromInt(20),
		PaidBy:      1,
		SplitType:   "EQUAL",
	})

	assert.NoError(t, err)
}

func TestUpdate_OnlyPayer(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.store.On("GetByID", ctx, int64(5)).Return(&Expense{ID: 5, GroupID: 1, PaidBy: 2, Kind: KindExpense}, nil)

	_, err := f.service.Update(ctx, 3, 5, &UpdateExpenseRequest{})

	assert.ErrorIs(t, err, ErrNotPayer)
}

func TestUpdate_PaymentImmutable(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.store.On("GetByID", ctx, int64(5)).Return(&Expense{ID: 5, GroupID: 1, PaidBy: 2, Kind: KindPayment}, nil)

	_, err := f.service.Update(ctx, 2, 5, &UpdateExpenseRequest{})
	assert.ErrorIs(t, err, ErrPaymentImmutable)

	err = f.service.Delete(ctx, 2, 5)
	assert.ErrorIs(t, err, ErrPaymentImmutable)
}

func TestUpdate_ReplacesSplits(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	existing := &Expense{ID: 5, GroupID: 1, PaidBy: 1, Currency: "GHS", Kind: KindExpense, Amount: decimal.NewFromInt(10)}
	f.store.On("GetByID", ctx, int64(5)).Return(existing, nil).Once()
	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)
	f.store.On("Replace", ctx, mock.MatchedBy(func(e *Expense) bool {
		return e.ID == 5 &&
			len(e.Splits) == 2 &&
			e.Splits[0].Amount.Equal(decimal.NewFromInt(25)) &&
			e.Splits[1].Amount.Equal(decimal.NewFromInt(25)) &&
			e.Currency == "GHS"
	})).Return(&Expense{ID: 5}, nil)
	f.store.On("GetByID", ctx, int64(5)).Return(&Expense{ID: 5, GroupID: 1, PaidBy: 1, Amount: decimal.NewFromInt(50)}, nil).Once()

	updated, err := f.service.Update(ctx, 1, 5, &UpdateExpenseRequest{
		Description: "Groceries",
		Amount:      decimal.NewFromInt(50),
		PaidBy:      1,
		SplitType:   "EQUAL",
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(updated.Amount))
	f.store.AssertExpectations(t)
	assert.Equal(t, []string{eventlog.TypeExpenseUpdated}, f.events.types())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.store.On("GetByID", ctx, int64(5)).Return(&Expense{ID: 5, GroupID: 1, PaidBy: 1, Kind: KindExpense}, nil)
	f.store.On("Delete", ctx, int64(5)).Return(nil)

	require.NoError(t, f.service.Delete(ctx, 1, 5))
	assert.Equal(t, []string{eventlog.TypeExpenseDeleted}, f.events.types())
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.store.On("GetByID", ctx, int64(404)).Return(nil, nil)

	_, err := f.service.Get(ctx, 404)

	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.groups.On("Roster", ctx, int64(1)).Return(ghsRoster(1, 2), nil)
	f.expectSave(ctx, 20)

	e, err := f.service.RecordPayment(ctx, 1, 2, 1, decimal.RequireFromString("15.005"), "")

	require.NoError(t, err)
	assert.Equal(t, KindPayment, e.Kind)
	assert.Equal(t, split.SplitTypeExact, e.SplitType)
	assert.Equal(t, "Settlement payment", e.Description)
	assert.Equal(t, int64(2), e.PaidBy)
	require.Len(t, e.Splits, 1)
	assert.Equal(t, int64(1), e.Splits[0].UserID)
	assert.Equal(t, "15.01", e.Splits[0].Amount.StringFixed(2))
	f.notifier.AssertNumberOfCalls(t, "NotifyExpenseAdded", 0)
}

func TestRecordPayment_SameMember(t *testing.T) {
	f := newFixture()

	_, err := f.service.RecordPayment(context.Background(), 1, 2, 2, decimal.NewFromInt(5), "")

	assert.ErrorIs(t, err, ErrSamePayerReceiver)
}

func TestPreviewSplit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	shares, err := f.service.PreviewSplit(ctx, &PreviewSplitRequest{
		Amount:       decimal.NewFromInt(200),
		SplitType:    "EQUAL",
		Participants: []split.Input{{UserID: 4}, {UserID: 5}, {UserID: 6}},
	})

	require.NoError(t, err)
	require.Len(t, shares, 3)
	assert.Equal(t, "66.66", shares[0].Amount.StringFixed(2))
	assert.Equal(t, "66.67", shares[1].Amount.StringFixed(2))
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.groups.AssertNotCalled(t, "Roster", mock.Anything, mock.Anything)
}

func TestListAllByGroup_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	stored := []*Expense{{ID: 1, Splits: []ExpenseSplit{{UserID: 1, Amount: decimal.NewFromInt(5)}}}}
	f.store.On("ListAllByGroup", ctx, int64(1)).Return(stored, nil)

	snapshot, err := f.service.ListAllByGroup(ctx, 1)
	require.NoError(t, err)

	snapshot[0].Splits[0].Amount = decimal.NewFromInt(99)
	assert.True(t, decimal.NewFromInt(5).Equal(stored[0].Splits[0].Amount))
}
