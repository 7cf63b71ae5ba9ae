package user

import (
	"strings"
	"time"
)

// User represents a user in the system. PhoneNumber is the mobile-money
// wallet settlements are requested against.
type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasWallet reports whether the user can receive mobile-money settlements
func (u *User) HasWallet() bool {
	return u.PhoneNumber != ""
}

// FirstName is the leading word of the user's name, used in short messages
func (u *User) FirstName() string {
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return u.Name
}
