package domain

import "context"

// User is a messaging platform account. The ID is supplied by the platform.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"firstName,omitempty"`
}

// DisplayName returns the first name, falling back to the username
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// Upsert inserts the user if absent. An existing row is left untouched.
	Upsert(ctx context.Context, user *User) error
}
