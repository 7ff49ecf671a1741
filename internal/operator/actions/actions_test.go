package actions

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

type mocks struct {
	accounts     *account.MockIAccountWriter
	transactions *transaction.MockITransactionWriter
	users        *user.MockIUserWriter
}

func newTestWriter(t *testing.T) (*storage.Writer, mocks) {
	t.Helper()
	m := mocks{
		accounts:     account.NewMockIAccountWriter(t),
		transactions: transaction.NewMockITransactionWriter(t),
		users:        user.NewMockIUserWriter(t),
	}
	return storage.ComposeWriter(nil, m.accounts, m.transactions, m.users), m
}

var (
	owner    = policy.Principal{UserID: 1, Username: "alice"}
	stranger = policy.Principal{UserID: 2, Username: "bob"}
	admin    = policy.Principal{UserID: 99, Username: "root", Admin: true}

	errDriver = errors.New("driver: connection reset")
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalEq(want string) interface{} {
	d := amount(want)
	return mock.MatchedBy(func(got decimal.Decimal) bool { return got.Equal(d) })
}

func activeAccount(id, ownerID int64, number, balance string) *account.Account {
	return &account.Account{
		ID:       id,
		Name:     "Checking",
		Number:   number,
		Balance:  amount(balance),
		Currency: "€",
		Status:   account.StatusActive,
		OwnerID:  ownerID,
	}
}

func inactive(a *account.Account) *account.Account {
	a.Status = account.StatusInactive
	return a
}

const (
	sourceNumber      = "00000000000000000001"
	destinationNumber = "00000000000000000002"
)
