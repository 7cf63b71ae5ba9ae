package commands

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fkhayef/momosplit/internal/currency"
	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/group"
	"github.com/fkhayef/momosplit/internal/user"
)

// memoryUsers keeps users for an offline run
type memoryUsers struct {
	mu    sync.Mutex
	users []*user.User
}

func (m *memoryUsers) Create(_ context.Context, req *user.CreateUserRequest) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	phone, err := user.NormalizePhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	u := &user.User{
		ID:          int64(len(m.users) + 1),
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: phone,
		CreatedAt:   time.Now(),
	}
	m.users = append(m.users, u)
	return u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) names() map[int64]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]string, len(m.users))
	for _, u := range m.users {
		out[u.ID] = u.Name
	}
	return out
}

// memoryGroups keeps groups and their joined members for an offline run
type memoryGroups struct {
	mu              sync.Mutex
	defaultCurrency string
	groups          []*group.Group
	members         map[int64][]*group.GroupMember
}

func newMemoryGroups(defaultCurrency string) *memoryGroups {
	return &memoryGroups{
		defaultCurrency: defaultCurrency,
		members:         make(map[int64][]*group.GroupMember),
	}
}

func (m *memoryGroups) Create(_ context.Context, creatorID int64, req *group.CreateGroupRequest) (*group.Group, error) {
	code := req.Currency
	if code == "" {
		code = m.defaultCurrency
	}
	unit, err := currency.Lookup(code)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	g := &group.Group{
		ID:          int64(len(m.groups) + 1),
		Name:        req.Name,
		Description: req.Description,
		Currency:    unit.String(),
		CreatedAt:   time.Now(),
	}
	m.groups = append(m.groups, g)
	m.members[g.ID] = []*group.GroupMember{{
		GroupID: g.ID,
		UserID:  creatorID,
		Status:  group.MemberStatusJoined,
		Role:    group.MemberRoleAdmin,
	}}
	return g, nil
}

func (m *memoryGroups) AddMember(_ context.Context, groupID int64, req *group.AddMemberRequest) (*group.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[groupID]; !ok {
		return nil, group.ErrGroupNotFound
	}
	for _, existing := range m.members[groupID] {
		if existing.UserID == req.UserID {
			return nil, group.ErrMemberAlreadyExists
		}
	}
	member := &group.GroupMember{
		GroupID: groupID,
		UserID:  req.UserID,
		Status:  group.MemberStatusInvited,
		Role:    req.Role,
	}
	m.members[groupID] = append(m.members[groupID], member)
	return member, nil
}

func (m *memoryGroups) AcceptInvitation(_ context.Context, groupID, userID int64) (*group.GroupMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members[groupID] {
		if member.UserID == userID {
			member.Status = group.MemberStatusJoined
			return member, nil
		}
	}
	return nil, group.ErrMemberNotFound
}

func (m *memoryGroups) Roster(_ context.Context, groupID int64) (*group.Roster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.members[groupID]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	roster := &group.Roster{GroupID: groupID, Currency: m.groups[groupID-1].Currency}
	for _, member := range members {
		if member.Status == group.MemberStatusJoined {
			roster.MemberIDs = append(roster.MemberIDs, member.UserID)
		}
	}
	return roster, nil
}

func (m *memoryGroups) list() []*group.Group {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*group.Group(nil), m.groups...)
}

// memoryExpenses is an expense.Store that never leaves the process
type memoryExpenses struct {
	mu       sync.Mutex
	nextID   int64
	expenses map[int64]*expense.Expense
}

func newMemoryExpenses() *memoryExpenses {
	return &memoryExpenses{expenses: make(map[int64]*expense.Expense)}
}

func (m *memoryExpenses) Create(_ context.Context, e *expense.Expense) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	saved := e.Clone()
	saved.ID = m.nextID
	saved.CreatedAt = time.Now()
	m.expenses[saved.ID] = saved
	return saved.Clone(), nil
}

func (m *memoryExpenses) GetByID(_ context.Context, id int64) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return nil, nil
	}
	return e.Clone(), nil
}

func (m *memoryExpenses) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*expense.Expense, int, error) {
	all, _ := m.ListAllByGroup(ctx, groupID)
	total := len(all)
	if offset >= total {
		return []*expense.Expense{}, total, nil
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (m *memoryExpenses) ListAllByGroup(_ context.Context, groupID int64) ([]*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*expense.Expense
	for _, e := range m.expenses {
		if e.GroupID == groupID {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryExpenses) Replace(_ context.Context, e *expense.Expense) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[e.ID]; !ok {
		return nil, nil
	}
	m.expenses[e.ID] = e.Clone()
	return e.Clone(), nil
}

func (m *memoryExpenses) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return expense.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}
