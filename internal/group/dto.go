package group

import (
	"time"

	"github.com/fkhayef/momosplit/internal/currency"
)

// CreateGroupRequest represents the request to create a new group
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Currency    string  `json:"currency,omitempty" example:"GHS"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// AddMemberRequest represents the request to add a member to a group
type AddMemberRequest struct {
	UserID int64      `json:"user_id" validate:"required"`
	Role   MemberRole `json:"role"`
}

// UpdateMemberRequest represents the request to update a member's status or role
type UpdateMemberRequest struct {
	Status *MemberStatus `json:"status,omitempty"`
	Role   *MemberRole   `json:"role,omitempty"`
}

// GroupResponse represents the response for a group. MinorUnits tells
// clients how many decimals the group's currency is entered with.
type GroupResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description,omitempty"`
	Currency      string            `json:"currency"`
	MinorUnits    int               `json:"minor_units"`
	CreatedAt     string            `json:"created_at"`
	Members       []*MemberResponse `json:"members,omitempty"`
	JoinedMembers int               `json:"joined_members,omitempty"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phone_number,omitempty"`
	Status      MemberStatus `json:"status"`
	Role        MemberRole   `json:"role"`
	IsAdmin     bool         `json:"is_admin"`
	JoinedAt    string       `json:"joined_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	// Stored codes were validated on create; 2 covers legacy rows.
	minor, err := currency.MinorUnits(g.Currency)
	if err != nil {
		minor = 2
	}
	return &GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Currency:    g.Currency,
		MinorUnits:  minor,
		CreatedAt:   timestamp(g.CreatedAt),
	}
}

// ToResponseWithMembers includes the member list and the joined count
func (g *Group) ToResponseWithMembers(members []*GroupMember) *GroupResponse {
	resp := g.ToResponse()
	resp.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		resp.Members[i] = m.ToResponse()
		if m.Status == MemberStatusJoined {
			resp.JoinedMembers++
		}
	}
	return resp
}

// ToResponse converts a GroupMember model to a MemberResponse DTO
func (m *GroupMember) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Status:      m.Status,
		Role:        m.Role,
		IsAdmin:     m.IsAdmin(),
		JoinedAt:    timestamp(m.JoinedAt),
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
