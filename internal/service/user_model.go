package service

import (
	"time"

	"github.com/carson-networks/bank-server/internal/storage/user"
)

// User represents a user in the service layer. The password hash never
// leaves storage.
type User struct {
	ID        int64
	Username  string
	Email     string
	Admin     bool
	Active    bool
	CreatedAt time.Time
}

// RegisterRequest signs up a regular user. A non-empty InitialAccountName
// also opens a first account.
type RegisterRequest struct {
	Username           string
	Email              string
	Password           string
	InitialAccountName string
}

// CreateUserRequest is an admin creating a user.
type CreateUserRequest struct {
	Username string
	Email    string
	Password string
	Admin    bool
}

// UpdateUserRequest changes the non-nil fields.
type UpdateUserRequest struct {
	Username *string
	Email    *string
	Password *string
	Admin    *bool
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// UserCursor identifies a position in a paginated result set.
type UserCursor struct {
	Position int
	Limit    int
}

func userFromStorage(row *user.User) User {
	return User{
		ID:        row.ID,
		Username:  row.Username,
		Email:     row.Email,
		Admin:     row.Admin,
		Active:    row.Active(),
		CreatedAt: row.CreatedAt,
	}
}
