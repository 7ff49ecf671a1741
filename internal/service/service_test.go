package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/operator/actions"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/storage/account"
	"github.com/carson-networks/bank-server/internal/storage/transaction"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

// fakeProcessor hands each action to perform instead of a database
// transaction.
type fakeProcessor struct {
	perform   func(action actions.IAction) error
	processed []actions.IAction
}

func (f *fakeProcessor) Process(_ context.Context, action actions.IAction) error {
	f.processed = append(f.processed, action)
	if f.perform == nil {
		return nil
	}
	return f.perform(action)
}

type readerMocks struct {
	accounts     *account.MockIAccountWriter
	transactions *transaction.MockITransactionWriter
	users        *user.MockIUserWriter
}

func newTestReader(t *testing.T) (*storage.Reader, readerMocks) {
	t.Helper()
	m := readerMocks{
		accounts:     account.NewMockIAccountWriter(t),
		transactions: transaction.NewMockITransactionWriter(t),
		users:        user.NewMockIUserWriter(t),
	}
	return &storage.Reader{
		Accounts:     m.accounts,
		Transactions: m.transactions,
		Users:        m.users,
	}, m
}

var (
	alice = policy.Principal{UserID: 1, Username: "alice"}
	bob   = policy.Principal{UserID: 2, Username: "bob"}
	root  = policy.Principal{UserID: 99, Username: "root", Admin: true}
)

func storageAccount(id, ownerID int64, balance string) *account.Account {
	return &account.Account{
		ID:        id,
		Name:      "Checking",
		Number:    "00000000000000000042",
		Balance:   decimal.RequireFromString(balance),
		Currency:  "€",
		Status:    account.StatusActive,
		OwnerID:   ownerID,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func makeStorageTransactions(n int, start time.Time) []*transaction.Transaction {
	rows := make([]*transaction.Transaction, n)
	for i := range rows {
		rows[i] = &transaction.Transaction{
			ID:        int64(n - i),
			AccountID: 1,
			Type:      transaction.TypeDeposit,
			Amount:    decimal.RequireFromString("1.00"),
			Currency:  "€",
			CreatedAt: start.Add(-time.Duration(i) * time.Minute),
		}
	}
	return rows
}
