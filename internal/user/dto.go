package user

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number,omitempty" example:"+233241234567"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// UserResponse represents the response for a single user
type UserResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	HasWallet   bool   `json:"has_wallet"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		FirstName:   u.FirstName(),
		PhoneNumber: u.PhoneNumber,
		HasWallet:   u.HasWallet(),
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
