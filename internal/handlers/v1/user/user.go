package user

import (
	"time"

	"github.com/carson-networks/bank-server/internal/service"
)

// User is the API response model for a user. Password hashes are never
// returned.
type User struct {
	ID        int64  `json:"id" doc:"User id"`
	Username  string `json:"username" doc:"Unique username"`
	Email     string `json:"email" doc:"Unique email address"`
	Admin     bool   `json:"admin" doc:"Whether the user is an administrator"`
	Active    bool   `json:"active" doc:"False once the user is deleted"`
	CreatedAt string `json:"created_at" doc:"RFC3339 creation time"`
}

// UserPathInput identifies a user in the URL.
type UserPathInput struct {
	ID int64 `path:"id" minimum:"1" doc:"User id"`
}

// FromService converts a service user to its API model.
func FromService(u *service.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Admin:     u.Admin,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
