package account

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const TableName = "accounts"

// Status is the lifecycle state of an account. Accounts only move from
// Active to Inactive.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Account represents an account record.
type Account struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Number    string          `db:"account_number"`
	Balance   decimal.Decimal `db:"balance"`
	Currency  string          `db:"currency"`
	Country   string          `db:"country"`
	Status    Status          `db:"status"`
	OwnerID   int64           `db:"user_id"`
	CreatedAt time.Time       `db:"created_at"`
}

// Active reports whether the account has not been deactivated.
func (a *Account) Active() bool {
	return a.Status == StatusActive
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	Name     string
	Number   string
	Balance  decimal.Decimal
	Currency string
	Country  string
	OwnerID  int64
}

// AccountFilter specifies filters for listing accounts.
// A nil OwnerID lists every owner's accounts.
type AccountFilter struct {
	OwnerID         *int64
	IncludeInactive bool
	Limit           int
	Offset          int
}

// IAccountReader defines the read side of account storage.
type IAccountReader interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindByNumber(ctx context.Context, number string) (*Account, error)
	List(ctx context.Context, filter *AccountFilter) ([]*Account, error)
}

// IAccountWriter defines account storage operations available inside a
// database transaction.
type IAccountWriter interface {
	IAccountReader
	FindByIDForUpdate(ctx context.Context, id int64) (*Account, error)
	NumberExists(ctx context.Context, number string) (bool, error)
	Insert(ctx context.Context, create *AccountCreate) (*Account, error)
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (*Account, error)
	Rename(ctx context.Context, id int64, name string) (*Account, error)
	Deactivate(ctx context.Context, id int64) error
}

var columns = []any{
	"id",
	"name",
	"account_number",
	"balance",
	"currency",
	"country",
	"status",
	"user_id",
	"created_at",
}
