package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/group"
	"github.com/fkhayef/momosplit/internal/user"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) Create(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockGroups struct {
	mock.Mock
}

func (m *MockGroups) Create(ctx context.Context, creatorID int64, req *group.CreateGroupRequest) (*group.Group, error) {
	args := m.Called(ctx, creatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.Group), args.Error(1)
}

func (m *MockGroups) AddMember(ctx context.Context, groupID int64, req *group.AddMemberRequest) (*group.GroupMember, error) {
	args := m.Called(ctx, groupID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.GroupMember), args.Error(1)
}

func (m *MockGroups) AcceptInvitation(ctx context.Context, groupID, userID int64) (*group.GroupMember, error) {
	args := m.Called(ctx, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*group.GroupMember), args.Error(1)
}

type MockExpenses struct {
	mock.Mock
}

func (m *MockExpenses) Create(ctx context.Context, actorID int64, req *expense.CreateExpenseRequest) (*expense.Expense, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expense.Expense), args.Error(1)
}

type staticProvider struct {
	dataset *Dataset
	err     error
}

func (p staticProvider) Dataset(context.Context) (*Dataset, error) {
	return p.dataset, p.err
}

func demo(t *testing.T) *Dataset {
	t.Helper()
	d, err := DemoProvider{}.Dataset(context.Background())
	require.NoError(t, err)
	return d
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	users, groups, expenses := new(MockUsers), new(MockGroups), new(MockExpenses)

	users.On("GetByEmail", ctx, mock.Anything).Return(nil, nil)
	users.On("Create", ctx, mock.MatchedBy(func(r *user.CreateUserRequest) bool { return r.Email == "ama@example.com" })).
		Return(&user.User{ID: 1}, nil)
	users.On("Create", ctx, mock.MatchedBy(func(r *user.CreateUserRequest) bool { return r.Email == "kofi@example.com" })).
		Return(&user.User{ID: 2}, nil)
	users.On("Create", ctx, mock.MatchedBy(func(r *user.CreateUserRequest) bool { return r.Email == "esi@example.com" })).
		Return(&user.User{ID: 3}, nil)

	groups.On("Create", ctx, int64(1), mock.MatchedBy(func(r *group.CreateGroupRequest) bool {
		return r.Currency == "GHS" && r.Description != nil
	})).Return(&group.Group{ID: 50}, nil)
	groups.On("AddMember", ctx, int64(50), &group.AddMemberRequest{UserID: 2, Role: group.MemberRoleMember}).Return(&group.GroupMember{}, nil)
	groups.On("AddMember", ctx, int64(50), &group.AddMemberRequest{UserID: 3, Role: group.MemberRoleMember}).Return(&group.GroupMember{}, nil)
	groups.On("AcceptInvitation", ctx, int64(50), int64(2)).Return(&group.GroupMember{}, nil)
	groups.On("AcceptInvitation", ctx, int64(50), int64(3)).Return(&group.GroupMember{}, nil)

	expenses.On("Create", ctx, int64(1), mock.MatchedBy(func(r *expense.CreateExpenseRequest) bool {
		return r.Description == "Guest house" && r.PaidBy == 1 && r.GroupID == 50 && len(r.Participants) == 0
	})).Return(&expense.Expense{ID: 100}, nil)
	expenses.On("Create", ctx, int64(2), mock.MatchedBy(func(r *expense.CreateExpenseRequest) bool {
		return r.Description == "Fuel" && len(r.Participants) == 3 && r.Participants[2].UserID == 3
	})).Return(&expense.Expense{ID: 101}, nil)

	result, err := NewSeeder(DemoProvider{}, users, groups, expenses).Seed(ctx)

	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 3, Groups: 1, Expenses: 2}, result)
	users.AssertExpectations(t)
	groups.AssertExpectations(t)
	expenses.AssertExpectations(t)
}

func TestSeeder_Seed_AlreadySeeded(t *testing.T) {
	ctx := context.Background()
	users, groups, expenses := new(MockUsers), new(MockGroups), new(MockExpenses)
	users.On("GetByEmail", ctx, mock.Anything).Return(&user.User{ID: 9}, nil)

	result, err := NewSeeder(DemoProvider{}, users, groups, expenses).Seed(ctx)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	groups.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSeeder_Seed_ExpenseRejected(t *testing.T) {
	ctx := context.Background()
	users, groups, expenses := new(MockUsers), new(MockGroups), new(MockExpenses)

	users.On("GetByEmail", ctx, mock.Anything).Return(nil, nil)
	users.On("Create", ctx, mock.Anything).Return(&user.User{ID: 1}, nil)
	groups.On("Create", ctx, mock.Anything, mock.Anything).Return(&group.Group{ID: 50}, nil)
	groups.On("AddMember", ctx, mock.Anything, mock.Anything).Return(&group.GroupMember{}, nil)
	groups.On("AcceptInvitation", ctx, mock.Anything, mock.Anything).Return(&group.GroupMember{}, nil)
	verr := &expense.ValidationError{Messages: []string{"Amount must be greater than 0"}}
	expenses.On("Create", ctx, mock.Anything, mock.Anything).Return(nil, verr)

	_, err := NewSeeder(staticProvider{dataset: demo(t)}, users, groups, expenses).Seed(ctx)

	var target *expense.ValidationError
	require.ErrorAs(t, err, &target)
	assert.Contains(t, err.Error(), "Guest house")
}

func TestSeeder_Seed_ProviderError(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewSeeder(staticProvider{err: boom}, new(MockUsers), new(MockGroups), new(MockExpenses)).Seed(context.Background())

	assert.ErrorIs(t, err, boom)
}
