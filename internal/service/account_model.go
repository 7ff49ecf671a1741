package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/storage/account"
)

// Account represents an account in the service layer.
type Account struct {
	ID        int64
	Name      string
	Number    string
	Balance   decimal.Decimal
	Currency  string
	Country   string
	Active    bool
	OwnerID   int64
	CreatedAt time.Time
}

// AccountCreate is the input for opening an account.
type AccountCreate struct {
	Name           string
	Currency       string
	Country        string
	InitialBalance decimal.Decimal
}

// AccountCursor identifies a position in a paginated result set.
type AccountCursor struct {
	Position int
	Limit    int
}

func accountFromStorage(row *account.Account) Account {
	return Account{
		ID:        row.ID,
		Name:      row.Name,
		Number:    row.Number,
		Balance:   row.Balance,
		Currency:  row.Currency,
		Country:   row.Country,
		Active:    row.Active(),
		OwnerID:   row.OwnerID,
		CreatedAt: row.CreatedAt,
	}
}
