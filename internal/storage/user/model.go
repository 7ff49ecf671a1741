package user

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
)

const TableName = "users"

// Status is the lifecycle state of a user. Users only move from Active to
// Inactive; rows are never removed.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// User represents a user record.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Admin        bool      `db:"admin"`
	Status       Status    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

// Active reports whether the user has not been deactivated.
func (u *User) Active() bool {
	return u.Status == StatusActive
}

// UserCreate is the input for inserting a user. PasswordHash must already
// be hashed.
type UserCreate struct {
	Username     string
	Email        string
	PasswordHash string
	Admin        bool
}

// UserUpdate carries the fields to change; unset fields are left alone.
type UserUpdate struct {
	Username     omit.Val[string]
	Email        omit.Val[string]
	PasswordHash omit.Val[string]
	Admin        omit.Val[bool]
}

// UserFilter specifies filters for listing users.
type UserFilter struct {
	IncludeInactive bool
	Limit           int
	Offset          int
}

type IUserReader interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter *UserFilter) ([]*User, error)
}

type IUserWriter interface {
	IUserReader
	Insert(ctx context.Context, create *UserCreate) (*User, error)
	Update(ctx context.Context, id int64, update *UserUpdate) (*User, error)
	Deactivate(ctx context.Context, id int64) error
}

var columns = []any{
	"id",
	"username",
	"email",
	"password_hash",
	"admin",
	"status",
	"created_at",
}
