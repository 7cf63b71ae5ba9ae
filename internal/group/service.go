package group

import (
	"context"
	"errors"
	"strings"

	"github.com/fkhayef/momosplit/internal/currency"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrNameRequired        = errors.New("group name is required")
	ErrInvalidCurrency     = errors.New("unsupported currency code")
)

// Service handles group business logic
type Service struct {
	repo            Store
	defaultCurrency string
}

// NewService creates a new group service. Groups created without a currency
// use defaultCurrency.
func NewService(repo Store, defaultCurrency string) *Service {
	return &Service{repo: repo, defaultCurrency: defaultCurrency}
}

// Create creates a new group and adds the creator as a joined admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}

	code := req.Currency
	if code == "" {
		code = s.defaultCurrency
	}
	unit, err := currency.Lookup(code)
	if err != nil {
		return nil, ErrInvalidCurrency
	}

	return s.repo.CreateWithAdmin(ctx, req, unit.String(), creatorID)
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*GroupMember, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups for a user
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies an existing group. Only admins may change it.
func (s *Service) Update(ctx context.Context, actorID, id int64, req *UpdateGroupRequest) (*Group, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrNameRequired
	}
	if err := s.requireAdmin(ctx, id, actorID); err != nil {
		return nil, err
	}

	group, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// Delete removes a group. Only admins may delete it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.requireAdmin(ctx, id, actorID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddMember invites a user to a group
func (s *Service) AddMember(ctx context.Context, groupID int64, req *AddMemberRequest) (*GroupMember, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	return s.repo.AddMember(ctx, groupID, req)
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	return s.repo.GetMembers(ctx, groupID)
}

// Roster returns the group's currency and its joined members in join order.
// Invited members are not part of the roster until they accept.
func (s *Service) Roster(ctx context.Context, groupID int64) (*Roster, error) {
	group, members, err := s.GetByIDWithMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	roster := &Roster{GroupID: group.ID, Currency: group.Currency}
	for _, m := range members {
		if m.Status == MemberStatusJoined {
			roster.MemberIDs = append(roster.MemberIDs, m.UserID)
		}
	}
	return roster, nil
}

// UpdateMember updates a member's status or role. Only admins may do this.
func (s *Service) UpdateMember(ctx context.Context, actorID, groupID, userID int64, req *UpdateMemberRequest) (*GroupMember, error) {
	if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	member, err := s.repo.UpdateMember(ctx, groupID, userID, req)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// RemoveMember removes a user from a group. Members may remove themselves;
// removing anyone else takes an admin.
func (s *Service) RemoveMember(ctx context.Context, actorID, groupID, userID int64) error {
	if actorID != userID {
		if err := s.requireAdmin(ctx, groupID, actorID); err != nil {
			return err
		}
	}
	return s.repo.RemoveMember(ctx, groupID, userID)
}

// AcceptInvitation allows a user to accept their group invitation
func (s *Service) AcceptInvitation(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	if member.Status != MemberStatusInvited {
		return member, nil // Already joined
	}

	updated, err := s.repo.UpdateMember(ctx, groupID, userID, &UpdateMemberRequest{
		Status: statusPtr(MemberStatusJoined),
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrMemberNotFound
	}
	return updated, nil
}

func (s *Service) requireAdmin(ctx context.Context, groupID, userID int64) error {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return err
	}

	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member.IsAdmin() {
		return ErrNotAuthorized
	}
	return nil
}

func statusPtr(s MemberStatus) *MemberStatus {
	return &s
}
